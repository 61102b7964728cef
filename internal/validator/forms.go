package validator

type SignInForm struct {
	Token string `form:"token" validate:"required,max=4096"`
}

type VerifyForm struct {
	Hackathon string `validate:"required,hackathon_name"`
	UserID    string `validate:"required,max=128"`
	Status    string `form:"status" validate:"required,verdict"`
}

type ListQuery struct {
	Hackathon string `validate:"required,hackathon_name"`
	Status    string
	Page      int `validate:"gte=1"`
}
