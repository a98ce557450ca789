package dto

type UpdateProfileRequest struct {
	FullName  *string `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

type AdminAccessResponse struct {
	SuperAdmin bool `json:"super_admin"`
}
