package registry

import (
	"fmt"

	"digital.vasic.challengegame/pkg/bank"
)

// LoadBank registers every definition held by the bank, in ID
// order.
func LoadBank(reg Registry, b *bank.Bank) error {
	for _, def := range b.All() {
		if err := reg.RegisterDefinition(def); err != nil {
			return fmt.Errorf("load bank: %w", err)
		}
	}
	return nil
}

// LoadDefinitions loads a bank file or directory and registers
// its definitions.
func LoadDefinitions(reg Registry, path string) error {
	b := bank.New()
	if err := b.Load(path); err != nil {
		return err
	}
	return LoadBank(reg, b)
}
