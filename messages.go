package linecalc

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. Every error of this package renders through exactly one of
// the error keys.
const (
	KeyUnexpectedToken       = "errorUnexpectedToken"
	KeyMissingToken          = "errorMissingToken"
	KeyIllegalCharacter      = "errorIllegalCharacter"
	KeyBadSingleQuote        = "errorBadSingleQuote"
	KeyBadDoubleQuote        = "errorBadDoubleQuote"
	KeyUninitializedVariable = "errorUninitializedVariable"
	KeyUnresolvableFunction  = "errorUnresolvableFunction"
	KeyAssignNonVariable     = "errorAssignNonVariable"
	KeyCallNonFunction       = "errorCallNonFunction"
	KeyNoLast                = "errorNoLast"
	KeyIncomplete            = "errorIncomplete"
	KeyBuiltin               = "errorBuiltin"
	KeyNaN                   = "errorNaN"

	// KeyResult formats a result in a non-decimal base.
	KeyResult = "messageResult"
	// KeyError formats an error for display in a line's output.
	KeyError = "messageError"
)

// Categories is the fixed set of error message keys.
var Categories = []string{
	KeyUnexpectedToken,
	KeyMissingToken,
	KeyIllegalCharacter,
	KeyBadSingleQuote,
	KeyBadDoubleQuote,
	KeyUninitializedVariable,
	KeyUnresolvableFunction,
	KeyAssignNonVariable,
	KeyCallNonFunction,
	KeyNoLast,
	KeyIncomplete,
	KeyBuiltin,
	KeyNaN,
}

// Languages is the list of languages with complete message catalogs. The
// first is the fallback for all others.
var Languages = []language.Tag{language.English, language.German}

var messages = map[language.Tag]map[string]string{
	language.English: {
		KeyUnexpectedToken:       "unexpected token: %s",
		KeyMissingToken:          "missing token: %s",
		KeyIllegalCharacter:      "illegal character: %s",
		KeyBadSingleQuote:        "malformed size in single quotes",
		KeyBadDoubleQuote:        "malformed base in double quotes",
		KeyUninitializedVariable: "uninitialized variable: %s",
		KeyUnresolvableFunction:  "function %s needs an argument",
		KeyAssignNonVariable:     "can only assign to a variable",
		KeyCallNonFunction:       "%s is not a function",
		KeyNoLast:                "no last result",
		KeyIncomplete:            "incomplete expression",
		KeyBuiltin:               "%s is built in and cannot be assigned",
		KeyNaN:                   "result is not a number",
		KeyResult:                "%s (base %s)",
		KeyError:                 "error: %s",
	},
	language.German: {
		KeyUnexpectedToken:       "unerwartetes Symbol: %s",
		KeyMissingToken:          "fehlendes Symbol: %s",
		KeyIllegalCharacter:      "ungültiges Zeichen: %s",
		KeyBadSingleQuote:        "fehlerhafte Größe in einfachen Anführungszeichen",
		KeyBadDoubleQuote:        "fehlerhafte Basis in doppelten Anführungszeichen",
		KeyUninitializedVariable: "nicht initialisierte Variable: %s",
		KeyUnresolvableFunction:  "Funktion %s braucht ein Argument",
		KeyAssignNonVariable:     "Zuweisung nur an Variablen möglich",
		KeyCallNonFunction:       "%s ist keine Funktion",
		KeyNoLast:                "kein letztes Ergebnis",
		KeyIncomplete:            "unvollständiger Ausdruck",
		KeyBuiltin:               "%s ist vordefiniert und kann nicht zugewiesen werden",
		KeyNaN:                   "Ergebnis ist keine Zahl",
		KeyResult:                "%s (Basis %s)",
		KeyError:                 "Fehler: %s",
	},
}

var (
	cat     = buildCatalog()
	matcher = language.NewMatcher(Languages)
)

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(Languages[0]))
	for tag, msgs := range messages {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				panic("linecalc: bad message " + key + ": " + err.Error())
			}
		}
	}
	return b
}

// printer returns a message printer for the catalog language closest to tag.
func printer(tag language.Tag) *message.Printer {
	_, k, _ := matcher.Match(tag)
	return message.NewPrinter(Languages[k], message.Catalog(cat))
}

// Sprint renders the message for key in the catalog language closest to tag.
// Arguments should be preformatted strings.
func Sprint(tag language.Tag, key string, args ...any) string {
	return printer(tag).Sprintf(key, args...)
}
