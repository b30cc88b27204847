package models

// UserPatch is a partial User. A nil field is absent and leaves the stored
// value untouched; JSON null decodes as absent too.
type UserPatch struct {
	Gender     *string        `json:"gender,omitempty"`
	Name       *NamePatch     `json:"name,omitempty"`
	Location   *LocationPatch `json:"location,omitempty"`
	Email      *string        `json:"email,omitempty"`
	Username   string         `json:"username"`
	Password   *string        `json:"password,omitempty"`
	Salt       *string        `json:"salt,omitempty"`
	MD5        *string        `json:"md5,omitempty"`
	SHA1       *string        `json:"sha1,omitempty"`
	SHA256     *string        `json:"sha256,omitempty"`
	Registered *int64         `json:"registered,omitempty"`
	Dob        *int64         `json:"dob,omitempty"`
	Phone      *string        `json:"phone,omitempty"`
	Cell       *string        `json:"cell,omitempty"`
	PPS        *string        `json:"PPS,omitempty"`
	Picture    *PicturePatch  `json:"picture,omitempty"`
}

type NamePatch struct {
	Title *string `json:"title,omitempty"`
	First *string `json:"first,omitempty"`
	Last  *string `json:"last,omitempty"`
}

type LocationPatch struct {
	Street *string `json:"street,omitempty"`
	City   *string `json:"city,omitempty"`
	State  *string `json:"state,omitempty"`
	Zip    *int64  `json:"zip,omitempty"`
}

type PicturePatch struct {
	Large     *string `json:"large,omitempty"`
	Medium    *string `json:"medium,omitempty"`
	Thumbnail *string `json:"thumbnail,omitempty"`
}

// Apply merges every present field of p into u, recursing into the nested
// values field by field. Username is the identity and is never assigned.
func (p *UserPatch) Apply(u *User) {
	set(&u.Gender, p.Gender)
	p.Name.Apply(&u.Name)
	p.Location.Apply(&u.Location)
	set(&u.Email, p.Email)
	set(&u.Password, p.Password)
	set(&u.Salt, p.Salt)
	set(&u.MD5, p.MD5)
	set(&u.SHA1, p.SHA1)
	set(&u.SHA256, p.SHA256)
	set(&u.Registered, p.Registered)
	set(&u.Dob, p.Dob)
	set(&u.Phone, p.Phone)
	set(&u.Cell, p.Cell)
	set(&u.PPS, p.PPS)
	p.Picture.Apply(&u.Picture)
}

func (p *NamePatch) Apply(n *Name) {
	if p == nil {
		return
	}
	set(&n.Title, p.Title)
	set(&n.First, p.First)
	set(&n.Last, p.Last)
}

func (p *LocationPatch) Apply(l *Location) {
	if p == nil {
		return
	}
	set(&l.Street, p.Street)
	set(&l.City, p.City)
	set(&l.State, p.State)
	set(&l.Zip, p.Zip)
}

func (p *PicturePatch) Apply(pic *Picture) {
	if p == nil {
		return
	}
	set(&pic.Large, p.Large)
	set(&pic.Medium, p.Medium)
	set(&pic.Thumbnail, p.Thumbnail)
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Ptr returns a pointer to v; convenient when building patches in code.
func Ptr[T any](v T) *T {
	return &v
}
