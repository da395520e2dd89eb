package auth

import (
	"github.com/iurnickita/debtreport/internal/model"
	"github.com/iurnickita/debtreport/internal/store"
)

// Auth - поиск администратора по учётным данным или по токену.
// Промах поиска возвращается как ok == false.
type Auth interface {
	Login(login string, password string) (string, bool)
	AdminByToken(token string) (model.Admin, bool)
}

type auth struct {
	admins []model.Admin
}

func NewAuth(admins []model.Admin) Auth {
	return &auth{admins: admins}
}

// Login сравнивает пароль открытым текстом с учётом регистра.
// При повторяющихся логинах проверяется только первый администратор.
func (a *auth) Login(login string, password string) (string, bool) {
	if login == "" || password == "" {
		return "", false
	}
	admin, ok := store.Find(a.admins, func(admin model.Admin) bool {
		return admin.Login == login
	})
	if !ok || admin.Password != password {
		return "", false
	}
	return admin.Token, true
}

func (a *auth) AdminByToken(token string) (model.Admin, bool) {
	if token == "" {
		return model.Admin{}, false
	}
	return store.Find(a.admins, func(admin model.Admin) bool {
		return admin.Token == token
	})
}
