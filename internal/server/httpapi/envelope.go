package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Trevrosa/pcupback/internal/common"
)

// Every endpoint (except validate_session) answers 200 with one of:
//
//	{"ok": <payload>}
//	{"err": {"code": "...", "detail": "..."}}
//
// Only transport problems (a body that is not valid JSON) produce a 4xx.
type envelope struct {
	OK  any        `json:"ok,omitempty"`
	Err *wireError `json:"err,omitempty"`
}

type wireError struct {
	Code   string `json:"code"`
	Detail string `json:"detail,omitempty"`
}

// okEnvelope forces the "ok" key to appear even when the payload is nil,
// which the omitempty tag on envelope.OK would otherwise drop.
type okEnvelope struct {
	OK any `json:"ok"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter, payload any) {
	writeJSON(w, http.StatusOK, okEnvelope{OK: payload})
}

func writeErr(w http.ResponseWriter, err error) {
	code, detail := classify(err)
	writeJSON(w, http.StatusOK, envelope{Err: &wireError{Code: code, Detail: detail}})
}

// classify maps a service-layer error to its wire code and optional detail.
// Unknown errors collapse to InternalError so internals never leak.
func classify(err error) (code, detail string) {
	var storeErr *common.StoreError

	switch {
	case errors.Is(err, common.ErrEmptyUsername):
		return "EmptyUsername", ""
	case errors.Is(err, common.ErrPasswordTooShort):
		return "InvalidPassword", "TooFewChars"
	case errors.Is(err, common.ErrPasswordTooLong):
		return "InvalidPassword", "TooManyChars"
	case errors.Is(err, common.ErrWrongPassword):
		return "WrongPassword", ""
	case errors.Is(err, common.ErrHashCreate):
		return "HashError", "CreateError"
	case errors.Is(err, common.ErrHashParse):
		return "HashError", "ParseError"
	case errors.Is(err, common.ErrInvalidSession):
		return "InvalidSession", ""
	case errors.As(err, &storeErr):
		return "DBError", storeOpDetail(storeErr.Op)
	default:
		return "InternalError", ""
	}
}

func storeOpDetail(op common.StoreOp) string {
	switch op {
	case common.OpInsert:
		return "InsertError"
	case common.OpSelect:
		return "SelectError"
	case common.OpDelete:
		return "DeleteError"
	default:
		return "OtherError"
	}
}
