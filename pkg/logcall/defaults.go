package logcall

// Correlation marker used by the standard library facades.
var contextMarker = Type("context", "Context")

const xtextMessage = "golang.org/x/text/message"

var (
	slogLevels = []string{"Debug", "Info", "Warn", "Error"}
	logFuncs   = []string{
		"Print", "Printf", "Println",
		"Fatal", "Fatalf", "Fatalln",
		"Panic", "Panicf", "Panicln",
	}
)

// LoggingShapes returns the four accepted parameter shapes of a logging
// call: (message), (message, args), (marker, message), (marker, message, args).
func LoggingShapes(markers []TypeRef) [][]TypeRef {
	shapes := [][]TypeRef{
		{Any()},
		{Builtin("string"), Any()},
	}
	for _, m := range markers {
		shapes = append(shapes,
			[]TypeRef{m, Any()},
			[]TypeRef{m, Builtin("string"), Any()},
		)
	}
	return shapes
}

// MarkerShapes returns the owner-less shapes whose leading parameter is a
// correlation marker. A call matching one of them carries its message at
// argument index 1.
func MarkerShapes(markers []TypeRef) []Signature {
	sigs := make([]Signature, 0, 2*len(markers))
	for _, m := range markers {
		sigs = append(sigs,
			Shape(m, Any()),
			Shape(m, Builtin("string"), Any()),
		)
	}
	return sigs
}

// LoggingSignatures expands owner and method names across every logging shape
func LoggingSignatures(owner Owner, methods []string, markers []TypeRef) []Signature {
	if len(methods) == 0 {
		methods = []string{AnyType}
	}
	var sigs []Signature
	for _, name := range methods {
		for _, params := range LoggingShapes(markers) {
			sigs = append(sigs, Signature{Owner: owner, Method: name, Params: params})
		}
	}
	return sigs
}

// FormattingSignatures returns the accepted shapes for a formatting function.
// The (any, format, args) shape treats locale-prefixed variants the same as
// the plain one.
func FormattingSignatures(owner Owner, method string) []Signature {
	return []Signature{
		{Owner: owner, Method: method, Params: []TypeRef{Builtin("string"), Any()}},
		{Owner: owner, Method: method, Params: []TypeRef{Any(), Builtin("string"), Any()}},
	}
}

// DefaultMarkers returns the correlation marker types of the standard facades
func DefaultMarkers() []TypeRef {
	return []TypeRef{contextMarker}
}

// DefaultLoggingSignatures covers log/slog and log, both the logger types
// and the package-level functions.
func DefaultLoggingSignatures() []Signature {
	markers := DefaultMarkers()

	slogMethods := make([]string, 0, 2*len(slogLevels))
	for _, lvl := range slogLevels {
		slogMethods = append(slogMethods, lvl, lvl+"Context")
	}

	var sigs []Signature
	sigs = append(sigs, LoggingSignatures(Owner{Package: "log/slog", Type: "Logger"}, slogMethods, markers)...)
	sigs = append(sigs, LoggingSignatures(Owner{Package: "log/slog"}, slogMethods, markers)...)
	sigs = append(sigs, LoggingSignatures(Owner{Package: "log", Type: "Logger"}, logFuncs, markers)...)
	sigs = append(sigs, LoggingSignatures(Owner{Package: "log"}, logFuncs, markers)...)
	return sigs
}

// DefaultFormattingSignatures covers fmt.Sprintf and the locale-bound
// golang.org/x/text/message printer, whose key is a message.Reference
// rather than a plain format string.
func DefaultFormattingSignatures() []Signature {
	sigs := FormattingSignatures(Owner{Package: "fmt"}, "Sprintf")
	return append(sigs, Signature{
		Owner:  Owner{Package: xtextMessage, Type: "Printer"},
		Method: "Sprintf",
		Params: []TypeRef{Type(xtextMessage, "Reference"), Any()},
	})
}
