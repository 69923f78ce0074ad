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
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mintleaf-io/roost/database"
	"github.com/mintleaf-io/roost/ledger"
	"github.com/mintleaf-io/roost/oracle"
	"github.com/mintleaf-io/roost/registry"
	"github.com/mintleaf-io/roost/reward"
	"github.com/mintleaf-io/roost/treasury"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdminToken = "test-admin-token"

type testApi struct {
	api     *Api
	oracle  *oracle.Static
	gateway *treasury.Recorder
	clock   time.Time
}

func newTestApi(t *testing.T) *testApi {
	t.Helper()
	db, err := database.New(
		&database.Config{
			DataDir: t.TempDir(),
		},
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close() //nolint:errcheck
	})
	schedule, err := reward.NewSchedule(
		reward.PeriodDaily,
		reward.Symbol{Code: "WYNX", Precision: 2},
	)
	require.NoError(t, err)
	env := &testApi{
		oracle:  oracle.NewStatic(),
		gateway: treasury.NewRecorder(),
		clock:   time.Unix(1700000000, 0),
	}
	stakeLedger, err := ledger.NewLedger(ledger.Config{
		Database: db,
		Oracle:   env.oracle,
		Gateway:  env.gateway,
		Schedule: schedule,
		TimeNow:  func() time.Time { return env.clock },
	})
	require.NoError(t, err)
	rateRegistry, err := registry.NewRegistry(registry.Config{
		Database: db,
	})
	require.NoError(t, err)
	env.api = New(
		Config{AdminToken: testAdminToken},
		stakeLedger,
		rateRegistry,
	)
	return env
}

func (env *testApi) request(
	t *testing.T,
	method, path string,
	body any,
	admin bool,
) *httptest.ResponseRecorder {
	t.Helper()
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reqBody)
	if admin {
		req.Header.Set("Authorization", "Bearer "+testAdminToken)
	}
	w := httptest.NewRecorder()
	env.api.Handler().ServeHTTP(w, req)
	return w
}

func (env *testApi) initialize(t *testing.T) {
	t.Helper()
	w := env.request(t, "POST", "/v1/init", InitRequest{
		TokenContract:  "wynx.token",
		AssetsContract: "atomicassets",
		Collection:     "wynxgarage",
	}, true)
	require.Equal(t, http.StatusNoContent, w.Code)
}

func (env *testApi) addStakedAsset(
	t *testing.T,
	assetId uint64,
	owner string,
) {
	t.Helper()
	env.oracle.SetAsset(oracle.AssetInfo{
		AssetId:    assetId,
		Owner:      owner,
		Collection: "wynxgarage",
		TemplateId: 7,
	})
	w := env.request(
		t,
		"PUT",
		"/v1/templates/7",
		SetTemplateRateRequest{Rate: 1000},
		true,
	)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = env.request(t, "POST", "/v1/stakes", StakeRequest{
		Owner:    owner,
		AssetIds: []uint64{assetId},
	}, false)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestHealth(t *testing.T) {
	env := newTestApi(t)
	w := env.request(t, "GET", "/health", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.IsHealthy)
	assert.False(t, resp.Initialized)

	env.initialize(t)
	w = env.request(t, "GET", "/health", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Initialized)
}

func TestAdminAuth(t *testing.T) {
	env := newTestApi(t)
	body := InitRequest{
		TokenContract:  "wynx.token",
		AssetsContract: "atomicassets",
		Collection:     "wynxgarage",
	}

	// No token
	w := env.request(t, "POST", "/v1/init", body, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Wrong token
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(
		"POST",
		"/v1/init",
		bytes.NewBuffer(data),
	)
	req.Header.Set("Authorization", "Bearer wrong-token")
	rec := httptest.NewRecorder()
	env.api.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid token
	w = env.request(t, "POST", "/v1/init", body, true)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestInitConflict(t *testing.T) {
	env := newTestApi(t)
	env.initialize(t)
	w := env.request(t, "POST", "/v1/init", InitRequest{
		TokenContract:  "other.token",
		AssetsContract: "other",
		Collection:     "other",
	}, true)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestTemplateRoutes(t *testing.T) {
	env := newTestApi(t)
	env.initialize(t)

	w := env.request(
		t,
		"PUT",
		"/v1/templates/7",
		SetTemplateRateRequest{Rate: 1000},
		true,
	)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.request(t, "GET", "/v1/templates", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var rates []registry.TemplateRate
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rates))
	require.Len(t, rates, 1)
	assert.Equal(t, uint64(7), rates[0].TemplateId)
	assert.Equal(t, uint64(1000), rates[0].Rate)

	w = env.request(t, "DELETE", "/v1/templates/7", nil, true)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.request(t, "DELETE", "/v1/templates/7", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.request(t, "PUT", "/v1/templates/notanumber", SetTemplateRateRequest{}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStakeRoutes(t *testing.T) {
	env := newTestApi(t)
	env.initialize(t)
	env.addStakedAsset(t, 101, "alice")

	// Double stake conflicts
	w := env.request(t, "POST", "/v1/stakes", StakeRequest{
		Owner:    "alice",
		AssetIds: []uint64{101},
	}, false)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Unknown asset fails ownership verification
	w = env.request(t, "POST", "/v1/stakes", StakeRequest{
		Owner:    "alice",
		AssetIds: []uint64{999},
	}, false)
	assert.Equal(t, http.StatusConflict, w.Code)

	env.clock = env.clock.Add(12 * time.Hour)
	w = env.request(t, "GET", "/v1/stakes?owner=alice", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var stakes []ledger.StakeInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stakes))
	require.Len(t, stakes, 1)
	assert.Equal(t, uint64(101), stakes[0].AssetId)
	assert.Equal(t, uint64(500), stakes[0].Accrued)

	// Missing owner query param
	w = env.request(t, "GET", "/v1/stakes", nil, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClaimRoute(t *testing.T) {
	env := newTestApi(t)
	env.initialize(t)
	env.addStakedAsset(t, 201, "alice")
	env.clock = env.clock.Add(24 * time.Hour)

	w := env.request(
		t,
		"POST",
		"/v1/stakes/201/claim",
		ClaimRequest{Owner: "alice"},
		false,
	)
	require.Equal(t, http.StatusOK, w.Code)
	var resp PayoutResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint64(201), resp.AssetId)
	assert.Equal(t, uint64(1000), resp.Units)
	assert.Equal(t, "10.00 WYNX", resp.Quantity)

	// Nothing further accrued
	w = env.request(
		t,
		"POST",
		"/v1/stakes/201/claim",
		ClaimRequest{Owner: "alice"},
		false,
	)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Wrong owner
	env.clock = env.clock.Add(24 * time.Hour)
	w = env.request(
		t,
		"POST",
		"/v1/stakes/201/claim",
		ClaimRequest{Owner: "bob"},
		false,
	)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, "GET", "/v1/stakes/201/receipts", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var receipts []database.Receipt
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &receipts))
	require.Len(t, receipts, 1)
	assert.Equal(t, uint64(1000), receipts[0].Amount)
}

func TestUnstakeRoute(t *testing.T) {
	env := newTestApi(t)
	env.initialize(t)
	env.addStakedAsset(t, 301, "alice")
	env.clock = env.clock.Add(48 * time.Hour)

	w := env.request(
		t,
		"DELETE",
		"/v1/stakes/301?owner=alice",
		nil,
		false,
	)
	require.Equal(t, http.StatusOK, w.Code)
	var resp PayoutResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint64(2000), resp.Units)

	// Record is gone
	w = env.request(
		t,
		"DELETE",
		"/v1/stakes/301?owner=alice",
		nil,
		false,
	)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
