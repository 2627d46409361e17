package handlers

import "net/http"

// Home is the plaintext greeting served at /.
func Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Hello World"))
}
