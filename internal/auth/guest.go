package auth

import (
	"encoding/json"
	"net/http"

	authmw "github.com/learntrack/learntrack/internal/auth/middleware"
	"github.com/learntrack/learntrack/internal/config"
)

// GuestLoginHandler issues a learner token without a password. Meant for
// offline/dev use where the daemon and the renderer share a machine.
func GuestLoginHandler(a *authmw.AuthService, cfg config.Config) http.HandlerFunc {
	type out struct {
		AccessToken string `json:"access_token"`
		Username    string `json:"username"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !cfg.EnableGuest {
			http.Error(w, "guest login disabled", http.StatusForbidden)
			return
		}
		tok, err := a.IssueJWT(cfg.LearnerUser, "learner")
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out{AccessToken: tok, Username: cfg.LearnerUser})
	}
}
