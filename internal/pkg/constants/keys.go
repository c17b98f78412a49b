package constants

const (
	CookieKeyAuthToken  = "auth_token"
	HeaderAuthorization = "Authorization"

	CtxKeyUserID   = "user_id"
	CtxKeyUserRole = "user_role"

	ViperSecretKey = "AUTH_SECRET"
)

const (
	RoleDoctor = "doctor"
	RoleAdmin  = "admin"
)
