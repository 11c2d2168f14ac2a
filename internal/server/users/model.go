package users

import (
	"encoding/json"
	"time"

	"github.com/dmitrijs2005/useradmin/internal/common"
)

// User is a managed record. ProfilePic and DescriptionFile hold stored
// attachment names, empty when none was uploaded.
type User struct {
	ID              int64
	Name            string
	Address         string
	PhoneNumber     string
	ProfilePic      string
	DescriptionFile string
	CreatedAt       time.Time
}

// MarshalJSON renders the wire shape; created_at uses common.TimestampLayout
// in UTC.
func (u User) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID              int64  `json:"id"`
		Name            string `json:"name"`
		Address         string `json:"address"`
		PhoneNumber     string `json:"phone_number"`
		ProfilePic      string `json:"profile_pic"`
		DescriptionFile string `json:"description_file"`
		CreatedAt       string `json:"created_at"`
	}{
		ID:              u.ID,
		Name:            u.Name,
		Address:         u.Address,
		PhoneNumber:     u.PhoneNumber,
		ProfilePic:      u.ProfilePic,
		DescriptionFile: u.DescriptionFile,
		CreatedAt:       u.CreatedAt.UTC().Format(common.TimestampLayout),
	})
}
