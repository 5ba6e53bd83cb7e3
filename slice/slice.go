// Maybe use package slices instead

package slice

func Map[T any, U any](input []T, pred func(T) U) []U {
	if input == nil {
		return nil
	}
	result := make([]U, len(input))
	for i, v := range input {
		result[i] = pred(v)
	}
	return result
}
