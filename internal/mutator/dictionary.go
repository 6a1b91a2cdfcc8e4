package mutator

// overwriteWithAddressDictionary stamps each address-dictionary token at
// every offset it fits, per spec §4.2's dictionary-overwrite stage — this
// is how the mutator gets a plausible contract/EOA address into calldata
// without understanding ABI encoding itself.
func (m *Mutator) overwriteWithAddressDictionary(data []byte, save Saver) error {
	for _, token := range m.dicts.Address {
		if len(token) == 0 || len(token) > len(data) {
			continue
		}
		for i := 0; i+len(token) <= len(data); i++ {
			if _, err := save.Save(cloneWith(data, i, token)); err != nil {
				return err
			}
		}
	}
	return nil
}
