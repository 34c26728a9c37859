package api

type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Username *string `json:"username" validate:"omitempty,min=3,max=100,excludes=@"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin therapist patient"`
	Status   *string `json:"status" validate:"omitempty,oneof=active inactive locked"`
	Language *string `json:"language" validate:"omitempty,min=2,max=8"`
}

type RegisterTherapistRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Username    string `json:"username" validate:"required,min=3,max=100,excludes=@"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	Firstname   string `json:"firstname" validate:"required,max=100"`
	Lastname    string `json:"lastname" validate:"required,max=100"`
	Phone       string `json:"phone" validate:"max=50"`
	Institution string `json:"institution" validate:"max=255"`
	Language    string `json:"language" validate:"omitempty,min=2,max=8"`
}

type UpdateTherapistRequest struct {
	Firstname   *string `json:"firstname" validate:"omitempty,max=100"`
	Lastname    *string `json:"lastname" validate:"omitempty,max=100"`
	Phone       *string `json:"phone" validate:"omitempty,max=50"`
	Institution *string `json:"institution" validate:"omitempty,max=255"`
	Language    *string `json:"language" validate:"omitempty,min=2,max=8"`
	// Only admins may change the approval status
	Status *string `json:"status" validate:"omitempty,oneof=pending accepted rejected"`
}

type CreatePatientRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=100,excludes=@"`
	// Generated and mailed when empty
	Password  string `json:"password" validate:"omitempty,min=8,max=72"`
	Firstname string `json:"firstname" validate:"required,max=100"`
	Lastname  string `json:"lastname" validate:"required,max=100"`
	Birthdate string `json:"birthdate" validate:"omitempty,datetime=2006-01-02"`
	Info      string `json:"info" validate:"max=16000"`
	Language  string `json:"language" validate:"omitempty,min=2,max=8"`
	// Required for admins, ignored for therapists who always own their patients
	TherapistId int64 `json:"therapist_id" validate:"omitempty,min=1"`
}

type UpdatePatientRequest struct {
	Firstname   *string `json:"firstname" validate:"omitempty,max=100"`
	Lastname    *string `json:"lastname" validate:"omitempty,max=100"`
	Birthdate   *string `json:"birthdate" validate:"omitempty,datetime=2006-01-02"`
	Info        *string `json:"info" validate:"omitempty,max=16000"`
	Language    *string `json:"language" validate:"omitempty,min=2,max=8"`
	TherapistId *int64  `json:"therapist_id" validate:"omitempty,min=1"`
}
