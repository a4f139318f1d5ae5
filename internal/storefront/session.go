package storefront

import (
	"strings"

	"github.com/mmeshcher/solemates/internal/cart"
	"github.com/mmeshcher/solemates/internal/model"
)

// MockUserID идентификатор, который получает любая мок-сессия.
// С ним же связаны начальные заказы журнала.
const MockUserID = "123"

// IdentityFromEmail подбирает личность по email без проверки пароля.
// Email, содержащий "admin", получает роль администратора.
func IdentityFromEmail(email string) model.User {
	if strings.Contains(email, "admin") {
		return model.User{ID: MockUserID, Name: "Admin User", Email: email, Role: model.RoleAdmin}
	}
	return model.User{ID: MockUserID, Name: "John Doe", Email: email, Role: model.RoleUser}
}

// SignupIdentity создаёт личность нового пользователя. Регистрация всегда даёт роль user.
func SignupIdentity(name, email string) model.User {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "New User"
	}
	return model.User{ID: MockUserID, Name: name, Email: email, Role: model.RoleUser}
}

func reduceLogin(s State, identity model.User) State {
	s.Session = model.Some(identity)
	if identity.IsAdmin() {
		s.View = model.ViewAdminDashboard
	} else {
		s.View = model.ViewHome
	}
	return s
}

func reduceLogout(s State) State {
	s.Session = model.None[model.User]()
	s.Cart = cart.Clear()
	s.View = model.ViewHome
	return s
}
