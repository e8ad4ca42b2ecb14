package vault

import "time"

// Credential is one stored login. The whole struct is serialized and
// encrypted as the record's envelope; only ID, URL and Username are also
// mirrored into the store in plaintext for search.
type Credential struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	Name      string    `json:"name"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Patch describes a partial credential update. Nil fields keep the
// existing value; set fields win (shallow merge).
type Patch struct {
	URL      *string
	Username *string
	Password *string
	Name     *string
	Notes    *string
}

func (p Patch) apply(c *Credential) {
	if p.URL != nil {
		c.URL = *p.URL
	}
	if p.Username != nil {
		c.Username = *p.Username
	}
	if p.Password != nil {
		c.Password = *p.Password
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Notes != nil {
		c.Notes = *p.Notes
	}
}
