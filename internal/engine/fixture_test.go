package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/imamik/sagerec/internal/errkind"
	"github.com/imamik/sagerec/internal/resource"
	"github.com/imamik/sagerec/internal/stabilize"
	testutil "github.com/imamik/sagerec/internal/testing"
)

const widgetType = "Test::Widget"

type widget struct {
	Name *string
	ARN  *string
	Size *int
	Role *string
	Tags []resource.Tag
}

type createWidgetInput struct {
	Name string
	Size int
	Role string
}

type updateWidgetInput struct {
	Name string
	Size int
}

// fakeProvider is an in-memory provider replaying a queue of describe results.
type fakeProvider struct {
	mu sync.Mutex

	// describe results: a status string or an error. The last entry repeats.
	probes []any
	// current is the stored resource returned by describe.
	current widget

	describeCalls int
	createCalls   int
	updateCalls   int
	deleteCalls   int
	listTokens    []string

	createErr error
	updateErr error
	deleteErr error
	listErr   error
}

func newFakeProvider(probes ...any) *fakeProvider {
	return &fakeProvider{
		probes:  probes,
		current: widget{Name: aws.String("w1"), ARN: aws.String("arn:test:widget/w1"), Size: aws.Int(1), Role: aws.String("role-a")},
	}
}

func (p *fakeProvider) describe(_ context.Context, m *widget) (stabilize.Observation[*widget], error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.describeCalls++
	if len(p.probes) == 0 {
		return stabilize.Observation[*widget]{}, testutil.ErrNotFound
	}
	next := p.probes[0]
	if len(p.probes) > 1 {
		p.probes = p.probes[1:]
	}
	if err, ok := next.(error); ok {
		return stabilize.Observation[*widget]{}, err
	}

	observed := p.current
	return stabilize.Observation[*widget]{Model: &observed, Status: next.(string)}, nil
}

func (p *fakeProvider) create(_ context.Context, in createWidgetInput) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.createCalls++
	if p.createErr != nil {
		err := p.createErr
		p.createErr = nil
		return "", err
	}
	p.current = widget{Name: aws.String(in.Name), Size: aws.Int(in.Size), Role: aws.String(in.Role), ARN: aws.String("arn:test:widget/" + in.Name)}
	return *p.current.ARN, nil
}

func (p *fakeProvider) update(_ context.Context, in updateWidgetInput) (struct{}, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updateCalls++
	if p.updateErr != nil {
		return struct{}{}, p.updateErr
	}
	p.current.Size = aws.Int(in.Size)
	return struct{}{}, nil
}

func (p *fakeProvider) delete(_ context.Context, name string) (struct{}, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleteCalls++
	return struct{}{}, p.deleteErr
}

func (p *fakeProvider) list(_ context.Context, _ *widget, token string) ([]*widget, string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listTokens = append(p.listTokens, token)
	if p.listErr != nil {
		return nil, "", p.listErr
	}
	switch token {
	case "":
		return []*widget{{Name: aws.String("w1")}, {Name: aws.String("w2")}}, "page-2", nil
	case "page-2":
		return []*widget{{Name: aws.String("w3")}}, "", nil
	default:
		return nil, "", errors.New("bad token")
	}
}

var widgetStatuses = resource.StatusTable{
	resource.OperationCreate: {
		Success: []string{"Created"},
		Failure: []string{"CreateFailed"},
		Pending: []string{"Pending", "Creating"},
	},
	resource.OperationUpdate: {
		Success: []string{"Updated", "Created"},
		Failure: []string{"UpdateFailed"},
		Pending: []string{"Updating"},
	},
	resource.OperationDelete: {
		Failure: []string{"DeleteFailed"},
		Pending: []string{"Deleting"},
	},
}

func newWidgetAdapter(p *fakeProvider, tagAPI TagAPI) *Adapter[*widget] {
	a := &Adapter[*widget]{
		TypeName: widgetType,
		Identify: func(w *widget) string {
			if w == nil {
				return ""
			}
			return aws.ToString(w.Name)
		},
		Statuses: widgetStatuses,
		ValidateCreate: func(w *widget) error {
			if w.ARN != nil {
				return errors.New("ARN is read-only and must not be set on create")
			}
			return nil
		},
		Merge: func(current, desired *widget) *widget {
			merged := *desired
			if merged.Size == nil {
				merged.Size = current.Size
			}
			if merged.Role == nil {
				merged.Role = current.Role
			}
			if merged.ARN == nil {
				merged.ARN = current.ARN
			}
			return &merged
		},
		ValidateUpdate: func(current, desired *widget) error {
			if aws.ToString(current.Role) != aws.ToString(desired.Role) {
				return fmt.Errorf("role cannot be changed from %s to %s", aws.ToString(current.Role), aws.ToString(desired.Role))
			}
			return nil
		},
		Create: Bind(
			func(w *widget) (createWidgetInput, error) {
				if w.Name == nil {
					return createWidgetInput{}, errors.New("name is required")
				}
				return createWidgetInput{Name: *w.Name, Size: aws.ToInt(w.Size), Role: aws.ToString(w.Role)}, nil
			},
			p.create,
			func(w *widget, arn string) *widget {
				out := *w
				out.ARN = aws.String(arn)
				return &out
			},
		),
		Update: Bind(
			func(w *widget) (updateWidgetInput, error) {
				return updateWidgetInput{Name: aws.ToString(w.Name), Size: aws.ToInt(w.Size)}, nil
			},
			p.update,
			nil,
		),
		Delete: Bind(
			func(w *widget) (string, error) { return aws.ToString(w.Name), nil },
			p.delete,
			nil,
		),
		Describe: p.describe,
		List:     p.list,
	}

	if tagAPI != nil {
		a.Tags = &TagSupport[*widget]{
			API:     tagAPI,
			Target:  func(w *widget) string { return aws.ToString(w.ARN) },
			Desired: func(w *widget) []resource.Tag { return w.Tags },
			Attach: func(w *widget, tags map[string]string) *widget {
				out := *w
				out.Tags = resource.TagsFromMap(tags)
				return &out
			},
		}
	}
	return a
}

func newWidgetEngine(p *fakeProvider, tagAPI TagAPI, clock *testutil.Clock, opts ...Option) (*Engine[*widget], *RecordingSink) {
	sink := &RecordingSink{}
	opts = append([]Option{WithClock(clock.Now), WithSink(sink)}, opts...)
	e, err := New(newWidgetAdapter(p, tagAPI), opts...)
	if err != nil {
		panic(err)
	}
	return e, sink
}

func desiredWidget(name string) *widget {
	return &widget{Name: aws.String(name), Size: aws.Int(2), Role: aws.String("role-a")}
}

func kindOf(r Result[*widget]) errkind.Kind {
	if r.Err == nil {
		return ""
	}
	return r.Err.Kind
}
