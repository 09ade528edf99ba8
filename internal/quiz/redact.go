package quiz

// ForDelivery returns a copy of q safe to hand to a test-taker: every
// option's correctness flag is dropped. Applied whenever a quiz is served
// for taking; authoring/review views skip it.
func ForDelivery(q Quiz) Quiz {
	out := q
	out.Questions = make([]Question, len(q.Questions))
	for i, qu := range q.Questions {
		rq := qu
		rq.Options = make([]Option, len(qu.Options))
		for j, opt := range qu.Options {
			rq.Options[j] = Option{ID: opt.ID, Text: opt.Text}
		}
		out.Questions[i] = rq
	}
	return out
}
