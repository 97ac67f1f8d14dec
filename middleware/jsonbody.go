// middleware/jsonbody.go
package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dalemusser/inkwell/httperr"
	"github.com/dalemusser/inkwell/httputil"
)

type bodyKey struct{}

type parsedBody struct {
	raw   json.RawMessage
	value any
}

// ParseJSON returns a middleware that parses application/json request bodies
// and stores the result on the request context (see Body and DecodeBody).
// Requests with any other content type pass through untouched.
//
//   - An empty body parses as {}.
//   - The top-level value must be an object or an array.
//   - Bodies larger than maxBytes (if > 0) are rejected with 413.
//   - Malformed JSON is forwarded to fwd with a message and no status.
//
// r.Body is replaced with a reader over the raw bytes so handlers may read it again.
func ParseJSON(maxBytes int64, fwd httperr.Forwarder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil || !httputil.IsJSON(r.Header.Get("Content-Type")) {
				next.ServeHTTP(w, r)
				return
			}

			var src io.Reader = r.Body
			if maxBytes > 0 {
				src = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			raw, err := io.ReadAll(src)
			_ = r.Body.Close()
			if err != nil {
				var maxErr *http.MaxBytesError
				if errors.As(err, &maxErr) {
					fwd.Forward(w, r, httperr.Wrap(err, http.StatusRequestEntityTooLarge, "request entity too large"))
					return
				}
				fwd.Forward(w, r, httperr.Wrap(err, http.StatusBadRequest, "failed to read request body"))
				return
			}

			pb, err := parse(raw)
			if err != nil {
				fwd.Forward(w, r, httperr.Msg(err.Error()))
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(pb.raw))
			ctx := context.WithValue(r.Context(), bodyKey{}, pb)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func parse(raw []byte) (*parsedBody, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return &parsedBody{raw: json.RawMessage("{}"), value: map[string]any{}}, nil
	}
	if trimmed[0] != '{' && trimmed[0] != '[' {
		return nil, errors.New("JSON body must be an object or an array")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, httputil.DescribeJSONError(err)
	}
	if dec.More() {
		return nil, errors.New("request body contains multiple JSON values")
	}
	return &parsedBody{raw: json.RawMessage(trimmed), value: v}, nil
}

// Body returns the parsed JSON body (map[string]any or []any). ok is false
// when the request was not a JSON request.
func Body(r *http.Request) (v any, ok bool) {
	pb, ok := r.Context().Value(bodyKey{}).(*parsedBody)
	if !ok {
		return nil, false
	}
	return pb.value, true
}

// DecodeBody decodes the parsed JSON body into dst. It returns a 400 error
// when the request carried no JSON body or the shape does not match dst.
func DecodeBody(r *http.Request, dst any) error {
	pb, ok := r.Context().Value(bodyKey{}).(*parsedBody)
	if !ok {
		return httperr.BadRequest("request body must be application/json")
	}
	if err := json.Unmarshal(pb.raw, dst); err != nil {
		return httperr.Wrap(err, http.StatusBadRequest, httputil.DescribeJSONError(err).Error())
	}
	return nil
}
