// Package prop declares the marker type recognized by propreg as a
// configuration property.
//
// A property is a struct field whose declared type is Property:
//
//	type AppConfig struct {
//	    PORT prop.Property[int]
//	    HOST prop.Property[string]
//	    Sub  struct {
//	        TIMEOUT prop.Property[time.Duration]
//	    }
//	}
//
// Running propreg over the package produces a registrar listing
// AppConfig.PORT, AppConfig.HOST and AppConfig.Sub.TIMEOUT. Only the direct
// declared type counts: pointers to Property or named types defined on top
// of it are not properties.
package prop

// Property marks a configuration property. Value loading and validation are
// the job of the configuration runtime, not of this type.
type Property[T any] struct {
	Default     T
	Description string
}

// New returns a property with a default value and a human readable description.
func New[T any](def T, description string) Property[T] {
	return Property[T]{Default: def, Description: description}
}
