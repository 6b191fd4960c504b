package server

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/stocksense/procurebot/correlator"
)

// AuthCallbackHandler completes the authorization flow: the state parameter
// carries the one-time correlation handle minted when the login link was
// issued, and resolving it binds the exchanged token pair to the chat user.
func (s *Server) AuthCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := r.FormValue("state")
		code := r.FormValue("code")
		errorParam := r.FormValue("error")
		errorDesc := r.FormValue("error_description")

		if errorParam != "" {
			log.Warn().Str("error", errorParam).Str("description", errorDesc).Msg("authorization denied")
			s.renderResultPage(w, http.StatusBadRequest, resultFailure)
			return
		}
		if code == "" || state == "" {
			s.renderResultPage(w, http.StatusBadRequest, resultFailure)
			return
		}

		userID, err := s.broker.Resolve(state)
		if err != nil {
			if !errors.Is(err, correlator.ErrUnknownHandle) {
				log.Warn().Err(err).Msg("correlation resolve failed")
			}
			s.renderResultPage(w, http.StatusBadRequest, resultFailure)
			return
		}

		pair, err := s.idp.Exchange(r.Context(), code)
		if err != nil {
			log.Warn().Err(err).Int64("user_id", userID).Msg("code exchange failed")
			s.renderResultPage(w, http.StatusInternalServerError, resultFailure)
			return
		}

		if err := s.tokens.Upsert(userID, pair); err != nil {
			log.Warn().Err(err).Int64("user_id", userID).Msg("token pair store failed")
			s.renderResultPage(w, http.StatusInternalServerError, resultFailure)
			return
		}

		log.Info().Int64("user_id", userID).Msg("authorization completed")
		s.renderResultPage(w, http.StatusOK, resultSuccess)
	}
}
