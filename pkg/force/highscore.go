package force

import "github.com/chewxy/math32"

// Verdict is the outcome of comparing a frame against the high score.
type Verdict struct {
	Score     float32 // High score after this frame
	Celebrate bool    // A new high score was set
	Scalar    float32 // Scale mode fill in [0, 1]; 1 while celebrating
}

// Evaluate compares the combined force against score. Only a Calibrated
// state can raise the score and celebrate. A zero score yields an infinite
// ratio for any load and NaN for none; NaN displays as empty.
func Evaluate(frame ForceFrame, state State, score float32) Verdict {
	scalar := frame.Combined / score

	if scalar > 1 && state == Calibrated {
		return Verdict{
			Score:     math32.Max(frame.Combined, score),
			Celebrate: true,
			Scalar:    1,
		}
	}

	if math32.IsNaN(scalar) {
		scalar = 0
	}
	return Verdict{
		Score:  score,
		Scalar: math32.Min(scalar, 1),
	}
}
