package output

// T localizes API messages. locale is a raw Accept-Language value; keys are
// "error.<code>" for domain errors plus a few success messages. Unknown keys
// render as the key itself.
type T interface {
	T(locale, key string, data map[string]any) string
}
