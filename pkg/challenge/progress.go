package challenge

// Progress counts the answers given while a challenge is in
// progress.
type Progress struct {
	Attempts  int `json:"attempts"`
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
}

func (p *Progress) record(correct bool) {
	p.Attempts++
	if correct {
		p.Correct++
	} else {
		p.Incorrect++
	}
}
