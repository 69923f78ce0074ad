// Copyright 2026 Mintleaf Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package api

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/mintleaf-io/roost/database"
	"github.com/mintleaf-io/roost/ledger"
	"github.com/mintleaf-io/roost/registry"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(
	w http.ResponseWriter,
	status int,
	v any,
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,errchkjson
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response
func writeError(
	w http.ResponseWriter,
	status int,
	message string,
) {
	writeJSON(w, status, ErrorResponse{
		StatusCode: status,
		Error:      http.StatusText(status),
		Message:    message,
	})
}

// writeLedgerError maps the ledger error taxonomy onto HTTP status codes
func (a *Api) writeLedgerError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, ledger.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, ledger.ErrNotFound),
		errors.Is(err, registry.ErrRateNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ledger.ErrNotOwner):
		status = http.StatusForbidden
	case errors.Is(err, ledger.ErrNotInitialized),
		errors.Is(err, ledger.ErrAlreadyInitialized),
		errors.Is(err, ledger.ErrAlreadyStaked),
		errors.Is(err, ledger.ErrOwnershipInvalid),
		errors.Is(err, ledger.ErrNotEligible),
		errors.Is(err, ledger.ErrNothingAccrued):
		status = http.StatusConflict
	case errors.Is(err, ledger.ErrTransferFailed):
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
		a.logger.Error(
			"request failed",
			"error", err,
		)
	}
	writeError(w, status, err.Error())
}

// requireAdmin wraps administrative handlers with bearer token auth.
// With no token configured the handler runs unprotected.
func (a *Api) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if a.config.AdminToken != "" {
			token, ok := strings.CutPrefix(
				r.Header.Get("Authorization"),
				"Bearer ",
			)
			if !ok || subtle.ConstantTimeCompare(
				[]byte(token),
				[]byte(a.config.AdminToken),
			) != 1 {
				writeError(
					w,
					http.StatusUnauthorized,
					"missing or invalid admin token",
				)
				return
			}
		}
		next(w, r)
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func pathUint64(r *http.Request, name string) (uint64, error) {
	return strconv.ParseUint(r.PathValue(name), 10, 64)
}

// handleHealth handles GET /health
func (a *Api) handleHealth(
	w http.ResponseWriter,
	_ *http.Request,
) {
	initialized, err := a.ledger.Initialized()
	if err != nil {
		a.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{
		IsHealthy:   true,
		Initialized: initialized,
	})
}

// handleInit handles POST /v1/init
func (a *Api) handleInit(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req InitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	err := a.ledger.Initialize(
		req.TokenContract,
		req.AssetsContract,
		req.Collection,
	)
	if err != nil {
		a.writeLedgerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListTemplates handles GET /v1/templates
func (a *Api) handleListTemplates(
	w http.ResponseWriter,
	_ *http.Request,
) {
	rates, err := a.registry.List()
	if err != nil {
		a.writeLedgerError(w, err)
		return
	}
	if rates == nil {
		rates = []registry.TemplateRate{}
	}
	writeJSON(w, http.StatusOK, rates)
}

// handleSetTemplateRate handles PUT /v1/templates/{templateId}
func (a *Api) handleSetTemplateRate(
	w http.ResponseWriter,
	r *http.Request,
) {
	templateId, err := pathUint64(r, "templateId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid template id")
		return
	}
	var req SetTemplateRateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := a.registry.SetRate(templateId, req.Rate); err != nil {
		a.writeLedgerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRemoveTemplateRate handles DELETE /v1/templates/{templateId}
func (a *Api) handleRemoveTemplateRate(
	w http.ResponseWriter,
	r *http.Request,
) {
	templateId, err := pathUint64(r, "templateId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid template id")
		return
	}
	if err := a.registry.RemoveRate(templateId); err != nil {
		a.writeLedgerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleStake handles POST /v1/stakes
func (a *Api) handleStake(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req StakeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	err := a.ledger.Stake(r.Context(), req.Owner, req.AssetIds)
	if err != nil {
		a.writeLedgerError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// handleListStakes handles GET /v1/stakes?owner=
func (a *Api) handleListStakes(
	w http.ResponseWriter,
	r *http.Request,
) {
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		writeError(
			w,
			http.StatusBadRequest,
			"owner query parameter is required",
		)
		return
	}
	stakes, err := a.ledger.StakesByOwner(owner)
	if err != nil {
		a.writeLedgerError(w, err)
		return
	}
	if stakes == nil {
		stakes = []ledger.StakeInfo{}
	}
	writeJSON(w, http.StatusOK, stakes)
}

// handleClaim handles POST /v1/stakes/{assetId}/claim
func (a *Api) handleClaim(
	w http.ResponseWriter,
	r *http.Request,
) {
	assetId, err := pathUint64(r, "assetId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid asset id")
		return
	}
	var req ClaimRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	amount, err := a.ledger.Claim(r.Context(), req.Owner, assetId)
	if err != nil {
		a.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PayoutResponse{
		AssetId:  assetId,
		Owner:    req.Owner,
		Units:    amount.Units,
		Quantity: amount.String(),
	})
}

// handleUnstake handles DELETE /v1/stakes/{assetId}?owner=
func (a *Api) handleUnstake(
	w http.ResponseWriter,
	r *http.Request,
) {
	assetId, err := pathUint64(r, "assetId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid asset id")
		return
	}
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		writeError(
			w,
			http.StatusBadRequest,
			"owner query parameter is required",
		)
		return
	}
	amount, err := a.ledger.Unstake(r.Context(), owner, assetId)
	if err != nil {
		a.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PayoutResponse{
		AssetId:  assetId,
		Owner:    owner,
		Units:    amount.Units,
		Quantity: amount.String(),
	})
}

// handleReceipts handles GET /v1/stakes/{assetId}/receipts
func (a *Api) handleReceipts(
	w http.ResponseWriter,
	r *http.Request,
) {
	assetId, err := pathUint64(r, "assetId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid asset id")
		return
	}
	receipts, err := a.ledger.Receipts(assetId)
	if err != nil {
		a.writeLedgerError(w, err)
		return
	}
	if receipts == nil {
		receipts = []database.Receipt{}
	}
	writeJSON(w, http.StatusOK, receipts)
}
