package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"carousel/internal/app"
	"carousel/internal/carousel"
)

type fakeGenerator struct {
	result   *app.GenerateResult
	err      error
	hints    []string
	variants []carousel.Variant
}

func (g *fakeGenerator) Generate(ctx context.Context, hint string) (*app.GenerateResult, error) {
	return g.GenerateVariant(ctx, hint, "")
}

func (g *fakeGenerator) GenerateVariant(_ context.Context, hint string, variant carousel.Variant) (*app.GenerateResult, error) {
	g.hints = append(g.hints, hint)
	g.variants = append(g.variants, variant)
	return g.result, g.err
}

func carouselResult(t *testing.T, fs afero.Fs) *app.GenerateResult {
	t.Helper()
	if err := afero.WriteFile(fs, "slides/s1/carousel.pdf", []byte("%PDF-1.3 deck"), 0644); err != nil {
		t.Fatal(err)
	}
	return &app.GenerateResult{
		Title:        "5 Tips for Productivity",
		Variant:      carousel.VariantCarousel,
		SlidePaths:   []string{"slides/s1/cover.jpg"},
		DocumentPath: "slides/s1/carousel.pdf",
	}
}

func listResult(t *testing.T, fs afero.Fs, n int) *app.GenerateResult {
	t.Helper()
	result := &app.GenerateResult{Title: "Item 1", Variant: carousel.VariantList}
	for i := 1; i <= n; i++ {
		path := fmt.Sprintf("slides/s2/slide_%d.jpg", i)
		if err := afero.WriteFile(fs, path, []byte(fmt.Sprintf("jpeg %d", i)), 0644); err != nil {
			t.Fatal(err)
		}
		result.SlidePaths = append(result.SlidePaths, path)
	}
	return result
}

func textUpdate(id int, text string) Update {
	return Update{
		UpdateID: id,
		Message: &Message{
			MessageID: id,
			Chat:      &Chat{ID: 42, Type: "private"},
			From:      &User{ID: 7, FirstName: "Ada"},
			Text:      text,
		},
	}
}

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantOK      bool
		wantHint    string
		wantVariant carousel.Variant
	}{
		{"plainText", "5 Tips for Productivity", true, "5 Tips for Productivity", ""},
		{"carouselCommand", "/carousel Go tips", true, "Go tips", carousel.VariantCarousel},
		{"listCommand", "/list Tools", true, "Tools", carousel.VariantList},
		{"groupMention", "/carousel@DeckBot Go tips", true, "Go tips", carousel.VariantCarousel},
		{"commandWithoutHint", "/carousel", true, "", carousel.VariantCarousel},
		{"start", "/start", false, "", ""},
		{"unknownCommand", "/help", false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, ok := parseRequest(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("parseRequest(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if req.hint != tt.wantHint {
				t.Errorf("hint = %q, want %q", req.hint, tt.wantHint)
			}
			if req.variant != tt.wantVariant {
				t.Errorf("variant = %q, want %q", req.variant, tt.wantVariant)
			}
		})
	}
}

func TestHandleUpdateSendsDocument(t *testing.T) {
	api, server := newFakeAPI(t)
	fs := afero.NewMemMapFs()
	gen := &fakeGenerator{result: carouselResult(t, fs)}
	bot := NewBot(BotOptions{Client: testClient(server), Generator: gen, Fs: fs})

	bot.handleUpdate(context.Background(), textUpdate(1, "/carousel 5 Tips for Productivity"))

	if len(gen.hints) != 1 || gen.hints[0] != "5 Tips for Productivity" {
		t.Fatalf("hints = %v", gen.hints)
	}
	if gen.variants[0] != carousel.VariantCarousel {
		t.Errorf("variant = %q, want carousel", gen.variants[0])
	}

	docs := api.callsTo("sendDocument")
	if len(docs) != 1 {
		t.Fatalf("sendDocument calls = %d, want 1", len(docs))
	}
	if docs[0].fileName != "LinkedIn_Carousel.pdf" {
		t.Errorf("filename = %q, want LinkedIn_Carousel.pdf", docs[0].fileName)
	}
	if string(docs[0].fileData) != "%PDF-1.3 deck" {
		t.Errorf("file data = %q", docs[0].fileData)
	}
	if docs[0].fields["caption"] != "5 Tips for Productivity" {
		t.Errorf("caption = %q", docs[0].fields["caption"])
	}
	if got := len(api.callsTo("sendPhoto")); got != 0 {
		t.Errorf("sendPhoto calls = %d, want 0", got)
	}
}

func TestHandleUpdateSendsListImages(t *testing.T) {
	api, server := newFakeAPI(t)
	fs := afero.NewMemMapFs()
	gen := &fakeGenerator{result: listResult(t, fs, 3)}
	bot := NewBot(BotOptions{Client: testClient(server), Generator: gen, Fs: fs})

	bot.handleUpdate(context.Background(), textUpdate(1, "Tools every developer needs"))

	if gen.variants[0] != "" {
		t.Errorf("plain text should use the default variant, got %q", gen.variants[0])
	}

	photos := api.callsTo("sendPhoto")
	if len(photos) != 3 {
		t.Fatalf("sendPhoto calls = %d, want 3", len(photos))
	}
	for i, call := range photos {
		want := fmt.Sprintf("slide_%d.jpg", i+1)
		if call.fileName != want {
			t.Errorf("photo %d filename = %q, want %q", i, call.fileName, want)
		}
	}
	if photos[0].fields["caption"] != "Item 1" {
		t.Errorf("first caption = %q, want title", photos[0].fields["caption"])
	}
	if _, ok := photos[1].fields["caption"]; ok {
		t.Error("only the first photo should carry a caption")
	}
}

func TestHandleUpdateRejectsEmptyHint(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"bareCommand", "/carousel"},
		{"whitespaceHint", "/list    "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, server := newFakeAPI(t)
			gen := &fakeGenerator{}
			bot := NewBot(BotOptions{Client: testClient(server), Generator: gen, Fs: afero.NewMemMapFs()})

			bot.handleUpdate(context.Background(), textUpdate(1, tt.text))

			if len(gen.hints) != 0 {
				t.Errorf("generator called with %v", gen.hints)
			}
			msgs := api.callsTo("sendMessage")
			if len(msgs) != 1 || msgs[0].fields["text"] != emptyHintText {
				t.Errorf("messages = %+v, want empty hint notice", msgs)
			}
		})
	}
}

func TestHandleUpdateReportsErrors(t *testing.T) {
	api, server := newFakeAPI(t)
	gen := &fakeGenerator{err: fmt.Errorf("%w: connection refused", carousel.ErrGeneration)}
	bot := NewBot(BotOptions{Client: testClient(server), Generator: gen, Fs: afero.NewMemMapFs()})

	bot.handleUpdate(context.Background(), textUpdate(1, "Go tips"))

	msgs := api.callsTo("sendMessage")
	if len(msgs) != 2 {
		t.Fatalf("sendMessage calls = %d, want progress and error", len(msgs))
	}
	got := msgs[1].fields["text"]
	if !strings.HasPrefix(got, "Error: ") || !strings.Contains(got, "connection refused") {
		t.Errorf("error message = %q", got)
	}
}

func TestHandleUpdateMissingFile(t *testing.T) {
	api, server := newFakeAPI(t)
	gen := &fakeGenerator{result: &app.GenerateResult{DocumentPath: "slides/gone/carousel.pdf"}}
	bot := NewBot(BotOptions{Client: testClient(server), Generator: gen, Fs: afero.NewMemMapFs()})

	bot.handleUpdate(context.Background(), textUpdate(1, "Go tips"))

	msgs := api.callsTo("sendMessage")
	if len(msgs) != 2 || !strings.HasPrefix(msgs[1].fields["text"], "Error: ") {
		t.Errorf("messages = %+v, want error report", msgs)
	}
}

func TestHandleUpdateIgnoresNonText(t *testing.T) {
	api, server := newFakeAPI(t)
	gen := &fakeGenerator{}
	bot := NewBot(BotOptions{Client: testClient(server), Generator: gen})

	bot.handleUpdate(context.Background(), Update{UpdateID: 1})
	bot.handleUpdate(context.Background(), Update{UpdateID: 2, Message: &Message{Chat: &Chat{ID: 42}}})

	if len(api.callsTo("sendMessage")) != 0 || len(gen.hints) != 0 {
		t.Error("updates without text should be ignored")
	}
}

func TestRunProcessesUpdates(t *testing.T) {
	api, server := newFakeAPI(t)
	fs := afero.NewMemMapFs()
	gen := &fakeGenerator{result: carouselResult(t, fs)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api.updates = [][]Update{
		{textUpdate(10, "/start")},
		{textUpdate(11, "first"), textUpdate(12, "second")},
	}
	api.onDrain = cancel

	bot := NewBot(BotOptions{Client: testClient(server), Generator: gen, Fs: fs})
	err := bot.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}

	if strings.Join(gen.hints, ",") != "first,second" {
		t.Errorf("hints = %v, want in order", gen.hints)
	}
	if bot.offset != 13 {
		t.Errorf("offset = %d, want 13", bot.offset)
	}

	polls := api.callsTo("getUpdates")
	if len(polls) < 3 {
		t.Fatalf("getUpdates calls = %d, want at least 3", len(polls))
	}
	if polls[1].query["offset"] != "11" {
		t.Errorf("second poll offset = %q, want 11", polls[1].query["offset"])
	}
	if got := len(api.callsTo("sendDocument")); got != 2 {
		t.Errorf("sendDocument calls = %d, want 2", got)
	}
}
