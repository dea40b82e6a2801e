package api

import (
	"errors"
	"testing"

	"github.com/abhisek/bayesdx/internal/service"
)

func TestSchemasCompile(t *testing.T) {
	for _, op := range service.Operations() {
		if _, err := compiledSchema(op); err != nil {
			t.Errorf("compile %s: %v", op, err)
		}
	}
}

func TestValidateBody(t *testing.T) {
	tests := []struct {
		name string
		op   service.Operation
		body string
		ok   bool
	}{
		{"lr ok", service.OpLikelihoodRatio, `{"sensitivity":0.9,"specificity":0.95,"is_positive":false}`, true},
		{"lr missing polarity", service.OpLikelihoodRatio, `{"sensitivity":0.9,"specificity":0.95}`, false},
		{"posterior unbounded", service.OpPosterior, `{"prior_probability":0.2,"likelihood_ratio":"unbounded"}`, true},
		{"posterior bad string", service.OpPosterior, `{"prior_probability":0.2,"likelihood_ratio":"huge"}`, false},
		{"sequential no observations", service.OpSequential, `{"initial_probability":0.2}`, true},
		{"sequential both refs", service.OpSequential, `{"initial_probability":0.2,"observations":[{"test_id":"ctpa","test":{"sensitivity":1,"specificity":1},"is_positive":true}]}`, false},
		{"recommend id and inline", service.OpRecommend, `{"current_probability":0.5,"candidates":[{"test_id":"ctpa"},{"name":"x","sensitivity":0.5,"specificity":0.5}]}`, true},
		{"recommend mixed candidate", service.OpRecommend, `{"current_probability":0.5,"candidates":[{"test_id":"ctpa","sensitivity":0.5}]}`, false},
		{"not an object", service.OpPerformance, `[]`, false},
		{"not json", service.OpPerformance, `nope`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateBody(tt.op, []byte(tt.body))
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok {
				var reqErr *requestError
				if !errors.As(err, &reqErr) {
					t.Errorf("got %v, want *requestError", err)
				}
			}
		})
	}
}
