package query

// PageSpec is the caller's raw paging request. Zero values mean
// "not supplied".
type PageSpec struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

// PageDefaults configures pagination normalization. EntityOverride, if
// positive, replaces DefaultSize for the entity being listed before
// the caller's explicit size applies. MaxSize caps the final size.
type PageDefaults struct {
	DefaultSize    int
	MaxSize        int
	EntityOverride int
}

// Window is the normalized pagination result.
type Window struct {
	Page   int
	Size   int
	Limit  uint64
	Offset uint64
}

// CompilePagination clamps page/size into a limit/offset pair.
// Absent or invalid values fall back to defaults; the offset is never
// negative.
func CompilePagination(spec PageSpec, defaults PageDefaults) Window {
	page := spec.Page
	if page < 1 {
		page = 1
	}

	size := defaults.DefaultSize
	if defaults.EntityOverride > 0 {
		size = defaults.EntityOverride
	}
	if spec.Size >= 1 {
		size = spec.Size
	}
	if size < 1 {
		size = 1
	}
	if defaults.MaxSize > 0 && size > defaults.MaxSize {
		size = defaults.MaxSize
	}

	return Window{
		Page:   page,
		Size:   size,
		Limit:  uint64(size),
		Offset: uint64(page-1) * uint64(size),
	}
}
