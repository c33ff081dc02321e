package middleware

import "net/http"

// DevHeaders is the header policy applied to every response: CORS open to
// any origin and caching disabled.
var DevHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET, POST, OPTIONS",
	"Access-Control-Allow-Headers": "*",
	"Cache-Control":                "no-store, no-cache, must-revalidate",
}

// HeaderPolicy sets the given headers on every response. The headers are
// applied up front and again right before the status line is written, so a
// downstream handler that deletes them while building an error response
// cannot strip them.
func HeaderPolicy(headers map[string]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			pw := &policyWriter{ResponseWriter: w, headers: headers}
			pw.apply()
			next.ServeHTTP(pw, r)
		})
	}
}

type policyWriter struct {
	http.ResponseWriter
	headers     map[string]string
	wroteHeader bool
}

func (p *policyWriter) apply() {
	h := p.ResponseWriter.Header()
	for k, v := range p.headers {
		h.Set(k, v)
	}
}

func (p *policyWriter) WriteHeader(code int) {
	p.apply()
	if code >= http.StatusOK {
		p.wroteHeader = true
	}
	p.ResponseWriter.WriteHeader(code)
}

func (p *policyWriter) Write(b []byte) (int, error) {
	if !p.wroteHeader {
		p.WriteHeader(http.StatusOK)
	}
	return p.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (p *policyWriter) Unwrap() http.ResponseWriter { return p.ResponseWriter }
