package server

import (
	"fmt"
	"io"
	"strings"
)

var rule = strings.Repeat("=", 60)

// WriteBanner prints the startup banner for a server reachable at url.
func WriteBanner(w io.Writer, url, root string) {
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "🚀 Server running at %s\n", url)
	fmt.Fprintf(w, "📂 Serving %s\n", root)
	fmt.Fprintln(w, "✅ CORS enabled for all origins")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Press Ctrl+C to stop the server")
	fmt.Fprintln(w, rule)
}

// WriteStopped prints the shutdown message.
func WriteStopped(w io.Writer) {
	fmt.Fprint(w, "\n\n🛑 Server stopped\n")
}
