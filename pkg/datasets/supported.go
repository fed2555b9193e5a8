package datasets

// Supported maps known dataset identifiers to their subset variants. An empty
// string entry means the dataset is loadable without a subset. The table is
// informational (reported at startup and over the API); load requests are not
// validated against it.
func Supported() map[string][]string {
	return map[string][]string{
		"openai/gsm8k":       {"main", "socratic"},
		"mrmrx/CADS-dataset": {"0001_visceral_gc", "0002_visceral_sc", "0003_kits21"},
		"openai/gdpval":      {""},
		"kraina/airbnb":      {"all", "weekdays", "weekends"},
	}
}
