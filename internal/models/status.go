package models

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as plain JSON numbers, matching the backup file format.
	decimal.MarshalJSONWithoutQuotes = true
}

type PaymentStatus string

const (
	StatusPaid    PaymentStatus = "paid"
	StatusPending PaymentStatus = "pending"
)

func (s PaymentStatus) Valid() bool {
	return s == StatusPaid || s == StatusPending
}

type FundType string

const (
	FundDeposit  FundType = "deposit"
	FundWithdraw FundType = "withdraw"
)

func (t FundType) Valid() bool {
	return t == FundDeposit || t == FundWithdraw
}

// FlexibleID is an identifier that older data files stored either as a
// string or as a bare number. It always marshals as a string.
type FlexibleID string

func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexibleID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = FlexibleID(n.String())
	return nil
}

func (id FlexibleID) String() string {
	return string(id)
}
