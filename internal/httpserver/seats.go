// internal/httpserver/seats.go
//
// Seat tokens: HS256 JWTs binding a bearer to one player slot of one match.
// Claims: {match, seat, exp, iat}. The acting player of every match action is taken
// from the token, never from the request body.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
)

type seatClaims struct {
	Match string `json:"match"`
	Seat  int    `json:"seat"`
	jwt.RegisteredClaims
}

var errBadSeat = errors.New("invalid seat token")

// signSeat issues a token for seat (1 or 2) of matchID.
func (s *Server) signSeat(matchID string, seat int) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.cfg.SeatTokenTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, seatClaims{
		Match: matchID,
		Seat:  seat,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	ss, err := t.SignedString([]byte(s.cfg.JWTSecret))
	return ss, exp, err
}

// parseSeat validates a token and returns its claims.
func (s *Server) parseSeat(tok string) (*seatClaims, error) {
	claims := &seatClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !t.Valid {
		return nil, errBadSeat
	}
	if claims.Match == "" || (claims.Seat != 1 && claims.Seat != 2) {
		return nil, errBadSeat
	}
	return claims, nil
}

// bearerToken extracts the token from an "Authorization: Bearer" header. Both seats of a
// match come from one create response, so tokens travel in the header rather than a cookie.
func bearerToken(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}

type ctxSeatKey struct{}

// requireSeat enforces a valid seat token for the match named in the URL and puts the
// seat number into the request context.
func (s *Server) requireSeat(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := bearerToken(r)
		if tok == "" {
			httpError(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		claims, err := s.parseSeat(tok)
		if err != nil {
			httpError(w, "invalid_token", http.StatusUnauthorized)
			return
		}
		if claims.Match != chi.URLParam(r, "id") {
			httpError(w, "wrong_match", http.StatusForbidden)
			return
		}
		ctx := context.WithValue(r.Context(), ctxSeatKey{}, claims.Seat)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// seatFrom returns the seat stored by requireSeat, 0 if none.
func seatFrom(ctx context.Context) int {
	seat, _ := ctx.Value(ctxSeatKey{}).(int)
	return seat
}
