package spell

// Dictionary checks words in one language. Implementations are provided
// by a backend such as the wordlist package.
type Dictionary interface {
	// Language returns the language code the dictionary was requested for.
	Language() string

	// Check reports whether word is spelled correctly.
	Check(word string) (bool, error)

	// Suggest returns corrections for word, best first. The result may be
	// empty.
	Suggest(word string) ([]string, error)

	// AddToPersonal stores word in the user's persistent word list.
	AddToPersonal(word string) error

	// AddToSession accepts word until the dictionary is discarded.
	AddToSession(word string) error
}

// Broker enumerates and opens dictionaries.
type Broker interface {
	// ListLanguages returns the codes of all installed dictionaries, such
	// as "en_US" or "de".
	ListLanguages() []string

	// RequestDictionary opens the dictionary for code. Codes without a
	// dictionary fail with an error wrapping ErrUnsupportedLanguage.
	RequestDictionary(code string) (Dictionary, error)

	// SetParam passes a backend specific setting through unchanged.
	SetParam(key, value string) error
}
