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

package reward

import (
	"fmt"
	"strconv"
	"strings"
)

// Symbol identifies a reward currency: a short uppercase code plus the
// number of decimal places in its minimal unit
type Symbol struct {
	Code      string
	Precision uint8
}

func (s Symbol) String() string {
	return fmt.Sprintf("%d,%s", s.Precision, s.Code)
}

// Amount is a reward value in minimal currency units. A 2-decimal
// currency stores 10.00 as 1000 units.
type Amount struct {
	Units  uint64
	Symbol Symbol
}

// IsZero returns true if the amount has no units
func (a Amount) IsZero() bool {
	return a.Units == 0
}

// String formats the amount as a fixed-point decimal with the symbol
// code, e.g. "10.00 WYNX"
func (a Amount) String() string {
	if a.Symbol.Precision == 0 {
		return fmt.Sprintf("%d %s", a.Units, a.Symbol.Code)
	}
	digits := strconv.FormatUint(a.Units, 10)
	prec := int(a.Symbol.Precision)
	if len(digits) <= prec {
		digits = strings.Repeat("0", prec-len(digits)+1) + digits
	}
	return fmt.Sprintf(
		"%s.%s %s",
		digits[:len(digits)-prec],
		digits[len(digits)-prec:],
		a.Symbol.Code,
	)
}
