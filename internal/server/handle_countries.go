package server

import (
	"net/http"

	"github.com/playperu/flagquiz/internal/flagquiz"
)

func handleCountries() http.HandlerFunc {
	flags := flagquiz.Flags()
	resp := make([]FlagInfo, 0, len(flags))
	for _, f := range flags {
		resp = append(resp, FlagInfo{
			Country:     string(f.Country),
			Asset:       f.Asset,
			Description: f.Description,
		})
	}

	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, resp)
	}
}
