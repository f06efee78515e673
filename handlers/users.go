package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"p9e.in/combustibles/config"
	"p9e.in/combustibles/models"
)

// ensureUser creates the account derived from a funcionario display name
// if it does not exist yet. Returns the derived username and whether a
// new account was created.
func ensureUser(db *gorm.DB, funcionario string) (username string, created bool, err error) {
	username, password := models.DerivedCredentials(funcionario)
	if username == "" {
		return "", false, fmt.Errorf("%w: nombre de funcionario requerido", models.ErrValidation)
	}

	var existing models.User
	err = db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return username, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, err
	}

	user := models.User{
		Username:    username,
		Funcionario: funcionario,
		Role:        models.RoleUser,
	}
	if err := user.SetPassword(password); err != nil {
		return "", false, err
	}
	if err := db.Create(&user).Error; err != nil {
		return "", false, err
	}
	return username, true, nil
}

type createUserReq struct {
	Funcionario string `json:"funcionario"`
}

// CreateUser provisions an account from a funcionario name, the same
// derivation bulk import uses.
func CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Funcionario == "" {
		fail(w, http.StatusBadRequest, "nombre de funcionario requerido")
		return
	}

	username, created, err := ensureUser(config.DB, req.Funcionario)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			fail(w, http.StatusBadRequest, err.Error())
			return
		}
		fail(w, http.StatusInternalServerError, "error al crear usuario")
		return
	}
	if !created {
		fail(w, http.StatusConflict, "el usuario ya existe: "+username)
		return
	}
	ok(w, fmt.Sprintf("usuario creado: %s / %s1234", username, username), nil)
}

func GetAllUsers(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := config.DB.Order("created_at ASC").Find(&users).Error; err != nil {
		fail(w, http.StatusInternalServerError, "DB error: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total": len(users),
		"data":  users,
	})
}

type updateUserReq struct {
	Username    string `json:"username"`
	Funcionario string `json:"funcionario"`
	Role        string `json:"rol"`
}

// UpdateUser allows admins to rename an account or change its role.
func UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		fail(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	var req updateUserReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Username == "" || req.Funcionario == "" {
		fail(w, http.StatusBadRequest, "datos incompletos")
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", id).Error; err != nil {
		fail(w, http.StatusNotFound, "usuario no encontrado")
		return
	}

	// Username collisions with another account are conflicts, not silent
	// overwrites.
	var clash models.User
	err = config.DB.Where("username = ? AND id <> ?", req.Username, id).First(&clash).Error
	if err == nil {
		fail(w, http.StatusConflict, "el nombre de usuario ya existe")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		fail(w, http.StatusInternalServerError, "DB error: "+err.Error())
		return
	}

	user.Username = req.Username
	user.Funcionario = req.Funcionario
	if req.Role != "" {
		user.Role = req.Role
	}
	if err := config.DB.Save(&user).Error; err != nil {
		fail(w, http.StatusInternalServerError, "error al editar usuario")
		return
	}

	ok(w, "usuario actualizado correctamente", nil)
}

// DeleteUser removes an account. The reserved admin account is protected
// from every delete path.
func DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		fail(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", id).Error; err != nil {
		fail(w, http.StatusNotFound, "usuario no encontrado")
		return
	}

	if user.Username == models.AdminUsername {
		fail(w, http.StatusBadRequest, "no se puede eliminar el usuario admin principal")
		return
	}

	if err := config.DB.Delete(&user).Error; err != nil {
		fail(w, http.StatusInternalServerError, "error al eliminar usuario")
		return
	}

	ok(w, "usuario eliminado correctamente", nil)
}
