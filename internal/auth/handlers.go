package auth

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type credentials struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// SignupHandler: POST /api/auth/signup
func SignupHandler(dbx *sql.DB, secret []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body credentials
		_ = json.NewDecoder(r.Body).Decode(&body)

		body.Email = strings.ToLower(strings.TrimSpace(body.Email))
		if body.Email == "" || body.Password == "" {
			http.Error(w, "email & password required", http.StatusBadRequest)
			return
		}

		// check duplicate email
		var exists int
		err := dbx.QueryRowContext(r.Context(),
			"SELECT COUNT(*) FROM users WHERE email=$1", body.Email,
		).Scan(&exists)
		if err == nil && exists > 0 {
			http.Error(w, "Email already in use.", http.StatusConflict)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			http.Error(w, "hash error", http.StatusInternalServerError)
			return
		}

		var id int
		err = dbx.QueryRowContext(r.Context(), `
			INSERT INTO users (first_name, last_name, email, password)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, strings.TrimSpace(body.FirstName), strings.TrimSpace(body.LastName),
			body.Email, string(hash)).Scan(&id)
		if err != nil {
			http.Error(w, "db insert error", http.StatusInternalServerError)
			return
		}

		token, _ := GenerateToken(secret, id)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user":  map[string]any{"email": body.Email},
			"token": token,
		})
	}
}

// LoginHandler: POST /api/auth/login
func LoginHandler(dbx *sql.DB, secret []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body credentials
		_ = json.NewDecoder(r.Body).Decode(&body)

		body.Email = strings.ToLower(strings.TrimSpace(body.Email))

		var id int
		var hashed string
		err := dbx.QueryRowContext(r.Context(),
			"SELECT id, password FROM users WHERE email=$1", body.Email,
		).Scan(&id, &hashed)
		if err != nil {
			http.Error(w, "Invalid email or password.", http.StatusUnauthorized)
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(hashed), []byte(body.Password)) != nil {
			http.Error(w, "Invalid email or password.", http.StatusUnauthorized)
			return
		}

		token, _ := GenerateToken(secret, id)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user":  map[string]any{"email": body.Email},
			"token": token,
		})
	}
}

// MeHandler: GET /api/auth/me
func MeHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var email, firstName string
		err := dbx.QueryRowContext(r.Context(),
			"SELECT email, first_name FROM users WHERE id=$1", uid,
		).Scan(&email, &firstName)
		if err != nil {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user_id":   uid,
			"email":     email,
			"firstName": firstName,
		})
	}
}
