package mapper

import "fmt"

// MapSlice maps every element of src into a new D. It stops at the first failing element.
func MapSlice[S, D any](m *Mapper, src []S) ([]D, error) {
	if src == nil {
		return nil, nil
	}
	result := make([]D, len(src))
	for i := range src {
		if err := m.Into(&result[i], &src[i]); err != nil {
			return nil, fmt.Errorf("mapping element %d: %w", i, err)
		}
	}
	return result, nil
}
