// handlers/auth.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"p9e.in/combustibles/config"
	"p9e.in/combustibles/middleware"
	"p9e.in/combustibles/models"
)

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userPayload struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Funcionario string    `json:"funcionario"`
	Role        string    `json:"rol"`
}

type loginResp struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
}

func Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	var u models.User
	if err := config.DB.Where("username = ?", req.Username).First(&u).Error; err != nil {
		http.Error(w, "credenciales incorrectas", http.StatusUnauthorized)
		return
	}
	if !u.CheckPassword(req.Password) {
		http.Error(w, "credenciales incorrectas", http.StatusUnauthorized)
		return
	}
	token, err := middleware.GenerateToken(u.ID.String(), u.Username, u.Funcionario, u.Role)
	if err != nil {
		http.Error(w, "couldn't create token", http.StatusInternalServerError)
		return
	}
	out := loginResp{
		Token: token,
		User: userPayload{
			ID:          u.ID,
			Username:    u.Username,
			Funcionario: u.Funcionario,
			Role:        u.Role,
		},
	}
	json.NewEncoder(w).Encode(out)
}

// GetCurrentUser answers the profile behind the presented token. The
// account row is authoritative; if it is gone the profile falls back to
// the token claims.
func GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	if middleware.GetClaims(r) == nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	user := middleware.GetUser(r)
	json.NewEncoder(w).Encode(userPayload{
		ID:          user.ID,
		Username:    user.Username,
		Funcionario: user.Funcionario,
		Role:        user.Role,
	})
}

type changePasswordReq struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword allows users to change their own password
func ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	claims := middleware.GetClaims(r)
	var user models.User
	if err := config.DB.First(&user, "id = ?", claims.UserID).Error; err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	if !user.CheckPassword(req.CurrentPassword) {
		http.Error(w, "current password is incorrect", http.StatusUnauthorized)
		return
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		http.Error(w, "error hashing password", http.StatusInternalServerError)
		return
	}
	if err := config.DB.Save(&user).Error; err != nil {
		http.Error(w, "failed to update password: "+err.Error(), http.StatusInternalServerError)
		return
	}

	ok(w, "password updated successfully", nil)
}
