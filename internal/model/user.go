package model

type User struct {
	ID         UserID `json:"id"`
	Name       string `json:"name"`
	IsObserver bool   `json:"isObserver"`
}

func NewUser(name string, isObserver bool) User {
	return User{
		ID:         NewUserID(),
		Name:       name,
		IsObserver: isObserver,
	}
}
