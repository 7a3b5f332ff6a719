package models

type VenueRequest struct {
	Name               string   `json:"name" validate:"required,max=120"`
	City               string   `json:"city" validate:"required,max=120"`
	State              string   `json:"state" validate:"required,max=120"`
	Address            string   `json:"address" validate:"max=120"`
	Phone              string   `json:"phone" validate:"max=120"`
	ImageLink          string   `json:"image_link" validate:"omitempty,url,max=500"`
	FacebookLink       string   `json:"facebook_link" validate:"omitempty,url,max=120"`
	Genres             []string `json:"genres" validate:"dive,required,max=120"`
	Website            string   `json:"website" validate:"omitempty,url"`
	SeekingTalent      bool     `json:"seeking_talent"`
	SeekingDescription string   `json:"seeking_description"`
}

func (r VenueRequest) Venue() Venue {
	v := Venue{
		Name:               r.Name,
		City:               r.City,
		State:              r.State,
		Address:            r.Address,
		Phone:              r.Phone,
		ImageLink:          r.ImageLink,
		FacebookLink:       r.FacebookLink,
		Genres:             append([]string{}, r.Genres...),
		Website:            r.Website,
		SeekingTalent:      r.SeekingTalent,
		SeekingDescription: r.SeekingDescription,
	}
	return v
}

type ArtistRequest struct {
	Name               string   `json:"name" validate:"required,max=120"`
	City               string   `json:"city" validate:"required,max=120"`
	State              string   `json:"state" validate:"required,max=120"`
	Phone              string   `json:"phone" validate:"max=120"`
	Genres             []string `json:"genres" validate:"dive,required,max=120"`
	ImageLink          string   `json:"image_link" validate:"omitempty,url,max=500"`
	FacebookLink       string   `json:"facebook_link" validate:"omitempty,url,max=120"`
	SeekingVenue       bool     `json:"seeking_venue"`
	SeekingDescription string   `json:"seeking_description"`
	Website            string   `json:"website" validate:"omitempty,url"`
}

func (r ArtistRequest) Artist() Artist {
	return Artist{
		Name:               r.Name,
		City:               r.City,
		State:              r.State,
		Phone:              r.Phone,
		Genres:             append([]string{}, r.Genres...),
		ImageLink:          r.ImageLink,
		FacebookLink:       r.FacebookLink,
		SeekingVenue:       r.SeekingVenue,
		SeekingDescription: r.SeekingDescription,
		Website:            r.Website,
	}
}

// VenuePatch carries a partial update. Nil fields are left untouched.
type VenuePatch struct {
	Name               *string   `json:"name" validate:"omitnil,min=1,max=120"`
	City               *string   `json:"city" validate:"omitnil,min=1,max=120"`
	State              *string   `json:"state" validate:"omitnil,min=1,max=120"`
	Address            *string   `json:"address" validate:"omitempty,max=120"`
	Phone              *string   `json:"phone" validate:"omitempty,max=120"`
	ImageLink          *string   `json:"image_link" validate:"omitempty,url,max=500"`
	FacebookLink       *string   `json:"facebook_link" validate:"omitempty,url,max=120"`
	Genres             *[]string `json:"genres" validate:"omitempty,dive,required,max=120"`
	Website            *string   `json:"website" validate:"omitempty,url"`
	SeekingTalent      *bool     `json:"seeking_talent"`
	SeekingDescription *string   `json:"seeking_description"`
}

type ArtistPatch struct {
	Name               *string   `json:"name" validate:"omitnil,min=1,max=120"`
	City               *string   `json:"city" validate:"omitnil,min=1,max=120"`
	State              *string   `json:"state" validate:"omitnil,min=1,max=120"`
	Phone              *string   `json:"phone" validate:"omitempty,max=120"`
	Genres             *[]string `json:"genres" validate:"omitempty,dive,required,max=120"`
	ImageLink          *string   `json:"image_link" validate:"omitempty,url,max=500"`
	FacebookLink       *string   `json:"facebook_link" validate:"omitempty,url,max=120"`
	SeekingVenue       *bool     `json:"seeking_venue"`
	SeekingDescription *string   `json:"seeking_description"`
	Website            *string   `json:"website" validate:"omitempty,url"`
}

// ShowRequest accepts start_time as RFC 3339 or "2006-01-02 15:04:05".
type ShowRequest struct {
	ArtistID  int64  `json:"artist_id" validate:"required,gt=0"`
	VenueID   int64  `json:"venue_id" validate:"required,gt=0"`
	StartTime string `json:"start_time" validate:"required"`
}
