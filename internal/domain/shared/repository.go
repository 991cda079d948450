package shared

// Filter represents query filter options.
// Keys in Filters are column names understood by the target repository.
type Filter struct {
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]interface{}
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		OrderDir: "asc",
		Filters:  make(map[string]interface{}),
	}
}

// With returns a copy of the filter with an extra equality condition
func (f Filter) With(key string, value interface{}) Filter {
	filters := make(map[string]interface{}, len(f.Filters)+1)
	for k, v := range f.Filters {
		filters[k] = v
	}
	filters[key] = value
	f.Filters = filters
	return f
}
