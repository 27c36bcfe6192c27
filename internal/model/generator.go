package model

// GenerateRequest represents a password generation request.
// Pointer bools allow distinguishing between missing (nil -> default) and explicit false.
type GenerateRequest struct {
	Length    int   `json:"length" validate:"gte=0"`
	Lowercase *bool `json:"lowercase"`
	Uppercase *bool `json:"uppercase"`
	Numbers   *bool `json:"numbers"`
	Symbols   *bool `json:"symbols"`
}

// GenerateResponse represents a password generation response. An empty
// Password with no Classes means no character type was selected.
type GenerateResponse struct {
	Password string   `json:"password"`
	Length   int      `json:"length"`
	Classes  []string `json:"classes"`
}

// SuggestRequest asks for separator suggestions for an existing password.
type SuggestRequest struct {
	Password string `json:"password" validate:"max=4096"`
}
