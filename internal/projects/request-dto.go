package projects

// project create/update payload
type ProjectRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// member addition payload
type AddMemberRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}
