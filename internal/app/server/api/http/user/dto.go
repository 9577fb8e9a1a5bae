package user

type credentials struct {
	Login    string `json:"login" doc:"Логин пользователя" minLength:"1" maxLength:"64"`
	Password string `json:"password" doc:"Пароль" minLength:"1" maxLength:"128"`
}

type registerInput struct {
	Body credentials
}

type registerOutput struct {
	Body RegisterResponse
}

type RegisterResponse struct {
	UserID string `json:"user_id"`
	Status string `json:"status"`
}

type loginInput struct {
	Body credentials
}

type loginOutput struct {
	Body LoginResponse
}

type LoginResponse struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
	Status string `json:"status"`
}
