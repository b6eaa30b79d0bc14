package crm

// object is the generic CRM record shape: an id plus a property bag
type object struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
}

// page is the common list envelope with cursor paging
type page struct {
	Results []object `json:"results"`
	Paging  *struct {
		Next *struct {
			After string `json:"after"`
		} `json:"next"`
	} `json:"paging"`
}

func (p page) nextAfter() string {
	if p.Paging != nil && p.Paging.Next != nil {
		return p.Paging.Next.After
	}
	return ""
}

// batchReadRequest asks for a set of records by id
type batchReadRequest struct {
	IDs        []string `json:"ids"`
	Properties []string `json:"properties"`
}

// batchInput is one record mutation inside a batch update
type batchInput struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
}

// batchUpdateRequest mutates a set of records in one call
type batchUpdateRequest struct {
	Inputs []batchInput `json:"inputs"`
}

// propertyPatch updates properties on a single record
type propertyPatch struct {
	Properties map[string]string `json:"properties"`
}
