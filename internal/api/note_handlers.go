package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

func (s *Server) registerNoteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listNotes",
		Method:      http.MethodGet,
		Path:        "/api/v1/notes",
		Summary:     "List notes",
		Description: "Returns the caller's notes, newest first",
		Tags:        []string{"Notes"},
	}, s.handleListNotes)

	huma.Register(s.api, huma.Operation{
		OperationID: "getNote",
		Method:      http.MethodGet,
		Path:        "/api/v1/notes/{id}",
		Summary:     "Get note",
		Tags:        []string{"Notes"},
	}, s.handleGetNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "createNote",
		Method:      http.MethodPost,
		Path:        "/api/v1/notes",
		Summary:     "Create note",
		Description: "Creates a note from raw markdown under a server-generated id",
		Tags:        []string{"Notes"},
	}, s.handleCreateNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "clipNote",
		Method:      http.MethodPost,
		Path:        "/api/v1/notes/clip",
		Summary:     "Clip note",
		Description: "Creates a note from clipped web content, converting HTML to markdown",
		Tags:        []string{"Notes"},
	}, s.handleClipNote)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteNote",
		Method:        http.MethodDelete,
		Path:          "/api/v1/notes/{id}",
		Summary:       "Delete note",
		Tags:          []string{"Notes"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteNote)
}

// === DTOs ===

// NoteResponse is a parsed note in API responses.
type NoteResponse struct {
	ID              string              `json:"id" doc:"Note id"`
	Body            string              `json:"body" doc:"Markdown body, frontmatter stripped"`
	Frontmatter     string              `json:"frontmatter,omitempty" doc:"Raw frontmatter block, if any"`
	SourceName      string              `json:"source_name,omitempty" doc:"Originating device or app"`
	LastModified    int64               `json:"last_modified" doc:"Epoch milliseconds"`
	Visibility      []string            `json:"visibility,omitempty" doc:"Visibility terms from frontmatter"`
	VisibilityEmail map[string][]string `json:"visibility_emails,omitempty" doc:"Per-term email lists from frontmatter"`
}

func noteToResponse(n *domain.Note) NoteResponse {
	return NoteResponse{
		ID:              n.ID,
		Body:            n.Body,
		Frontmatter:     n.Frontmatter,
		SourceName:      n.SourceName,
		LastModified:    n.LastModified,
		Visibility:      n.Metadata.Visibility,
		VisibilityEmail: n.Metadata.VisibilityEmails,
	}
}

// ListNotesOutput wraps the note list for Huma.
type ListNotesOutput struct {
	Body struct {
		Notes []NoteResponse `json:"notes" doc:"The caller's notes, newest first"`
	}
}

// GetNoteInput identifies a single note.
type GetNoteInput struct {
	ID string `path:"id" maxLength:"256" doc:"Note id"`
}

// NoteOutput wraps a single note for Huma.
type NoteOutput struct {
	Body NoteResponse
}

// CreateNoteInput carries new note content.
type CreateNoteInput struct {
	Body struct {
		Markdown   string `json:"markdown" validate:"required" doc:"Full markdown document, frontmatter included"`
		SourceName string `json:"source_name,omitempty" validate:"omitempty,max=256" doc:"Originating device or app"`
	}
}

// ClipNoteInput carries clipped web content.
type ClipNoteInput struct {
	Body struct {
		Content    string `json:"content" validate:"required" doc:"HTML or markdown content to clip"`
		SourceName string `json:"source_name,omitempty" validate:"omitempty,max=256" doc:"Originating page or extension"`
	}
}

// DeleteNoteInput identifies the note to delete.
type DeleteNoteInput struct {
	ID string `path:"id" maxLength:"256" doc:"Note id"`
}

// === Handlers ===

func (s *Server) handleListNotes(ctx context.Context, _ *struct{}) (*ListNotesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	notes, err := s.services.Note.List(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list notes", "error", err, "user_id", userID)
		return nil, err
	}

	out := &ListNotesOutput{}
	out.Body.Notes = make([]NoteResponse, 0, len(notes))
	for _, n := range notes {
		out.Body.Notes = append(out.Body.Notes, noteToResponse(n))
	}
	return out, nil
}

func (s *Server) handleGetNote(ctx context.Context, input *GetNoteInput) (*NoteOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	note, err := s.services.Note.Get(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &NoteOutput{Body: noteToResponse(note)}, nil
}

func (s *Server) handleCreateNote(ctx context.Context, input *CreateNoteInput) (*NoteOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	note, err := s.services.Note.CreateFromMarkdown(ctx, userID, input.Body.Markdown, input.Body.SourceName)
	if err != nil {
		return nil, err
	}

	return &NoteOutput{Body: noteToResponse(note)}, nil
}

func (s *Server) handleClipNote(ctx context.Context, input *ClipNoteInput) (*NoteOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	note, err := s.services.Note.CreateFromHTML(ctx, userID, input.Body.Content, input.Body.SourceName)
	if err != nil {
		return nil, err
	}

	return &NoteOutput{Body: noteToResponse(note)}, nil
}

func (s *Server) handleDeleteNote(ctx context.Context, input *DeleteNoteInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Note.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &struct{}{}, nil
}
