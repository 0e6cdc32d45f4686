package dtos

// GraphQLRequest is the JSON body posted to the search API
type GraphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// GraphQLError is one entry of a GraphQL "errors" array.
// Path mixes field names and list indices, e.g. ["search", "business", 0, "phone"].
type GraphQLError struct {
	Message string        `json:"message"`
	Path    []interface{} `json:"path,omitempty"`
}

// SearchResponse is the envelope of a business search
type SearchResponse struct {
	Data *struct {
		Search *struct {
			Total    int              `json:"total"`
			Business []SearchBusiness `json:"business"`
		} `json:"search"`
	} `json:"data"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

// SearchBusiness is one business record of a search result
type SearchBusiness struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Phone       string             `json:"phone"`
	Rating      float64            `json:"rating"`
	ReviewCount int                `json:"review_count"`
	Alias       string             `json:"alias"`
	URL         string             `json:"url"`
	Coordinates BusinessCoordinate `json:"coordinates"`
	Location    *BusinessLocation  `json:"location"`
}

// BusinessCoordinate holds a business position
type BusinessCoordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// BusinessLocation holds the address parts of a business.
// Every field may be empty or null upstream.
type BusinessLocation struct {
	City     *string `json:"city"`
	Country  *string `json:"country"`
	Address1 *string `json:"address1"`
	Address2 *string `json:"address2"`
	Address3 *string `json:"address3"`
	State    *string `json:"state"`
	ZipCode  *string `json:"zip_code"`
}

// HoursResponse is the envelope of a business hours lookup
type HoursResponse struct {
	Data *struct {
		Business *struct {
			Hours []BusinessHours `json:"hours"`
		} `json:"business"`
	} `json:"data"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

// BusinessHours is one hours block; the first block is the regular schedule
type BusinessHours struct {
	HoursType string         `json:"hours_type,omitempty"`
	Open      []OpenInterval `json:"open"`
}

// OpenInterval is one open period on one weekday (0 = Monday upstream)
type OpenInterval struct {
	Day         int    `json:"day"`
	Start       string `json:"start"`
	End         string `json:"end"`
	IsOvernight bool   `json:"is_overnight"`
}
