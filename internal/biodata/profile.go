package biodata

// Profile holds the fields extracted from one free-text biodata message.
// Every field is a plain string; an empty string means the field was not
// found. The struct is flat so callers can bind it directly to forms and
// storage rows.
type Profile struct {
	Name       string `json:"name"`
	Gender     string `json:"gender"`
	Age        string `json:"age"`
	Height     string `json:"height"`
	DOB        string `json:"dob"`
	TOB        string `json:"tob"`
	POB        string `json:"pob"`
	City       string `json:"city"`
	Address    string `json:"address"`
	Caste      string `json:"caste"`
	Gotra      string `json:"gotra"`
	Complexion string `json:"complexion"`
	Diet       string `json:"diet"`
	Education  string `json:"education"`
	Profession string `json:"profession"`
	Income     string `json:"income"`
	Company    string `json:"company"`
	Father     string `json:"father"`
	FatherOcc  string `json:"fatherOcc"`
	Mother     string `json:"mother"`
	MotherOcc  string `json:"motherOcc"`
	Siblings   string `json:"siblings"`
	Contact    string `json:"contact"`
	Manglik    string `json:"manglik"`
}
