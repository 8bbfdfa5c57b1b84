package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerSharingRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listSharedNotes",
		Method:      http.MethodGet,
		Path:        "/api/v1/shared",
		Summary:     "List shared notes",
		Description: "Returns notes other users have shared with the caller's email, newest first",
		Tags:        []string{"Sharing"},
	}, s.handleListShared)
}

// SharedNoteResponse is a note visible to the caller through sharing.
type SharedNoteResponse struct {
	NoteResponse
	OwnerID string `json:"owner_id" doc:"The sharing user's id"`
}

// SharedNotesOutput wraps the shared note list for Huma.
type SharedNotesOutput struct {
	Body struct {
		Notes []SharedNoteResponse `json:"notes" doc:"Notes shared with the caller, newest first"`
	}
}

func (s *Server) handleListShared(ctx context.Context, _ *struct{}) (*SharedNotesOutput, error) {
	email, err := GetUserEmail(ctx)
	if err != nil {
		return nil, err
	}

	notes, err := s.services.Sharing.FindSharedWith(ctx, email)
	if err != nil {
		s.logger.Error("Shared note discovery failed", "error", err)
		return nil, err
	}

	out := &SharedNotesOutput{}
	out.Body.Notes = make([]SharedNoteResponse, 0, len(notes))
	for _, n := range notes {
		out.Body.Notes = append(out.Body.Notes, SharedNoteResponse{
			NoteResponse: noteToResponse(n),
			OwnerID:      n.OwnerID,
		})
	}
	return out, nil
}
