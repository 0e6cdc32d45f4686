package providers

import (
	"fmt"

	"boba-atlas/importer/internal/models/dtos"
)

// searchQuery searches one page of businesses around a location.
// See https://www.yelp.com/developers/graphql/query/search
const searchQuery = `query Search($categories: String!, $location: String!, $limit: Int!, $sortBy: String!) {
  search(categories: $categories, location: $location, limit: $limit, sort_by: $sortBy) {
    total
    business {
      id
      name
      phone
      rating
      review_count
      alias
      url
      coordinates {
        latitude
        longitude
      }
      location {
        city
        country
        address1
        address2
        address3
        state
        zip_code
      }
    }
  }
}`

// hoursQuery fetches the open intervals of one business.
// See https://www.yelp.com/developers/graphql/query/business
const hoursQuery = `query BusinessHours($id: String!) {
  business(id: $id) {
    hours {
      hours_type
      open {
        is_overnight
        end
        day
        start
      }
    }
  }
}`

// BuildSearchRequest renders a business search. Values travel as GraphQL variables,
// never spliced into the query text.
func BuildSearchRequest(params SearchParams) dtos.GraphQLRequest {
	return dtos.GraphQLRequest{
		Query: searchQuery,
		Variables: map[string]interface{}{
			"categories": params.Category,
			"location":   fmt.Sprintf("%s, %s", params.Region, params.PostalCode),
			"limit":      params.Limit,
			"sortBy":     params.SortBy,
		},
	}
}

// BuildHoursRequest renders a business hours lookup
func BuildHoursRequest(businessID string) dtos.GraphQLRequest {
	return dtos.GraphQLRequest{
		Query: hoursQuery,
		Variables: map[string]interface{}{
			"id": businessID,
		},
	}
}
