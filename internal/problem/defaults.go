package problem

// RegisterDefaults installs the built-in problems. Safe to call once
// per process.
func RegisterDefaults() error {
	if err := Register(NewIntGuessing(4, 10)); err != nil {
		return err
	}
	return Register(NewTextGuessing("HELLO WORLD"))
}
