package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/promptforge/promptforge/internal/domain"
	"github.com/promptforge/promptforge/internal/storage/memory"
)

func echoStep(ctx context.Context, args Args, prompt *domain.Prompt) (any, error) {
	return args, nil
}

func storeWithPrompt(t *testing.T, p *domain.Prompt) *memory.PromptStore {
	t.Helper()
	store := memory.NewPromptStore()
	if err := store.StorePrompt(context.Background(), p); err != nil {
		t.Fatalf("store prompt: %v", err)
	}
	return store
}

func TestRegister_Duplicate(t *testing.T) {
	flow := New("test", memory.NewPromptStore())

	first := StepDefinition{Name: "extract", PromptID: "p1", Func: echoStep}
	if err := flow.Register(first); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	err := flow.Register(StepDefinition{Name: "extract", PromptID: "p2", Func: echoStep})
	var dupErr *domain.DuplicateStepError
	if !errors.As(err, &dupErr) {
		t.Fatalf("expected DuplicateStepError, got %v", err)
	}

	// The first registration must survive intact.
	reg, err := flow.Get("extract")
	if err != nil {
		t.Fatalf("get after duplicate: %v", err)
	}
	if reg.PromptID != "p1" {
		t.Errorf("expected first registration kept, got prompt id %q", reg.PromptID)
	}
	if len(flow.List()) != 1 {
		t.Errorf("expected exactly one registration, got %d", len(flow.List()))
	}
}

func TestRegister_ReservedParamName(t *testing.T) {
	flow := New("test", memory.NewPromptStore())

	err := flow.Register(StepDefinition{
		Name:     "bad",
		PromptID: "p1",
		Params:   []ParamSpec{{Name: "prompt"}},
		Func:     echoStep,
	})
	var invalidErr *domain.InvalidStepError
	if !errors.As(err, &invalidErr) {
		t.Fatalf("expected InvalidStepError, got %v", err)
	}
	if _, getErr := flow.Get("bad"); getErr == nil {
		t.Error("failed registration must not be partially recorded")
	}
}

func TestGet_Unknown(t *testing.T) {
	flow := New("test", memory.NewPromptStore())

	_, err := flow.Get("missing")
	var unknownErr *domain.UnknownStepError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownStepError, got %v", err)
	}
}

func TestList_RegistrationOrder(t *testing.T) {
	flow := New("test", memory.NewPromptStore())
	for _, name := range []string{"extract", "summarize", "publish"} {
		flow.MustRegister(StepDefinition{Name: name, PromptID: "p", Func: echoStep})
	}

	regs := flow.List()
	want := []string{"extract", "summarize", "publish"}
	for i, name := range want {
		if regs[i].Name != name {
			t.Errorf("position %d: got %q, want %q", i, regs[i].Name, name)
		}
	}
}

func TestCall_InjectsPromptAndBindsByName(t *testing.T) {
	store := storeWithPrompt(t, &domain.Prompt{
		ID:           "greet",
		TemplateVars: []string{"who"},
		User:         "Hello {who}",
	})
	flow := New("test", store)

	var gotArgs Args
	var gotPrompt *domain.Prompt
	flow.MustRegister(StepDefinition{
		Name:     "hello",
		PromptID: "greet",
		Params: []ParamSpec{
			{Name: "count", Type: TypeInt, Default: 3},
			{Name: "who"},
		},
		Func: func(ctx context.Context, args Args, prompt *domain.Prompt) (any, error) {
			gotArgs = args
			gotPrompt = prompt
			return "ok", nil
		},
	})

	result, err := flow.Call(context.Background(), "hello", Args{"who": "world"})
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if result != "ok" {
		t.Errorf("got result %v", result)
	}
	if gotPrompt == nil || gotPrompt.ID != "greet" {
		t.Fatalf("expected resolved prompt injected, got %+v", gotPrompt)
	}
	if gotArgs.String("who", "") != "world" {
		t.Errorf("argument bound incorrectly: %v", gotArgs)
	}
	if gotArgs.Int("count", 0) != 3 {
		t.Errorf("default not applied: %v", gotArgs)
	}
}

func TestCall_MissingRequiredArg(t *testing.T) {
	store := storeWithPrompt(t, &domain.Prompt{ID: "p", TemplateVars: []string{"a"}})
	flow := New("test", store)
	flow.MustRegister(StepDefinition{
		Name:     "s",
		PromptID: "p",
		Params:   []ParamSpec{{Name: "a"}},
		Func:     echoStep,
	})

	_, err := flow.Call(context.Background(), "s", Args{})
	var bindErr *domain.ParameterBindingError
	if !errors.As(err, &bindErr) {
		t.Fatalf("expected ParameterBindingError, got %v", err)
	}
}

func TestCall_PromptNotFound(t *testing.T) {
	flow := New("test", memory.NewPromptStore())

	invoked := false
	flow.MustRegister(StepDefinition{
		Name:     "s",
		PromptID: "missing",
		Func: func(ctx context.Context, args Args, prompt *domain.Prompt) (any, error) {
			invoked = true
			return nil, nil
		},
	})

	_, err := flow.Call(context.Background(), "s", Args{})
	var notFound *domain.PromptNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected PromptNotFoundError, got %v", err)
	}
	if invoked {
		t.Error("step function must not run when the prompt is missing")
	}
}

func TestCall_BackfillsTemplateVars(t *testing.T) {
	store := storeWithPrompt(t, &domain.Prompt{ID: "p", User: "text"})
	flow := New("test", store)
	flow.MustRegister(StepDefinition{
		Name:     "s",
		PromptID: "p",
		Params:   []ParamSpec{{Name: "article"}, {Name: "tone", Default: "neutral"}},
		Func:     echoStep,
	})

	if _, err := flow.Call(context.Background(), "s", Args{"article": "x"}); err != nil {
		t.Fatalf("call failed: %v", err)
	}

	stored, err := store.GetPrompt(context.Background(), "p")
	if err != nil {
		t.Fatalf("get prompt: %v", err)
	}
	want := []string{"article", "tone"}
	if len(stored.TemplateVars) != len(want) {
		t.Fatalf("template vars not backfilled: %v", stored.TemplateVars)
	}
	for i, v := range want {
		if stored.TemplateVars[i] != v {
			t.Errorf("template var %d: got %q, want %q", i, stored.TemplateVars[i], v)
		}
	}
}

func TestCall_RecordsRun(t *testing.T) {
	store := storeWithPrompt(t, &domain.Prompt{ID: "p", TemplateVars: []string{"a"}})
	runs := memory.NewDataStore()
	flow := New("test", store, WithDataStore(runs))
	flow.MustRegister(StepDefinition{
		Name:     "s",
		PromptID: "p",
		Params:   []ParamSpec{{Name: "a"}},
		Func: func(ctx context.Context, args Args, prompt *domain.Prompt) (any, error) {
			return "out", nil
		},
	})

	if _, err := flow.Call(context.Background(), "s", Args{"a": "in"}); err != nil {
		t.Fatalf("call failed: %v", err)
	}

	recorded, err := runs.ListRuns(context.Background())
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(recorded) != 1 {
		t.Fatalf("expected one run record, got %d", len(recorded))
	}
	run := recorded[0]
	if run.StepName != "s" || run.PromptID != "p" || run.Output != "out" {
		t.Errorf("run record mismatch: %+v", run)
	}
	if run.Input["a"] != "in" {
		t.Errorf("run input mismatch: %v", run.Input)
	}
	if run.RunID == "" {
		t.Error("run id must be set")
	}
}

func TestCall_StepErrorPropagates(t *testing.T) {
	store := storeWithPrompt(t, &domain.Prompt{ID: "p", TemplateVars: []string{"x"}})
	flow := New("test", store)
	stepErr := errors.New("upstream exploded")
	flow.MustRegister(StepDefinition{
		Name:     "s",
		PromptID: "p",
		Func: func(ctx context.Context, args Args, prompt *domain.Prompt) (any, error) {
			return nil, stepErr
		},
	})

	_, err := flow.Call(context.Background(), "s", Args{})
	if !errors.Is(err, stepErr) {
		t.Fatalf("expected wrapped step error, got %v", err)
	}
}
