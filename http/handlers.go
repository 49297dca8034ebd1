// tasks/http/handlers.go
package http

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/valyala/fasthttp"

	"github.com/vinizap/lumi/tasks/domain"
	"github.com/vinizap/lumi/tasks/events"
	"github.com/vinizap/lumi/tasks/filesystem"
)

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) HandleListTasks(c *fiber.Ctx) error {
	tasks, err := s.store.List()
	if err != nil {
		return s.storeError(c, err)
	}

	body, err := json.Marshal(tasks)
	if err != nil {
		return err
	}

	tag := ETag(body)
	c.Set(fiber.HeaderETag, tag)
	if ETagMatches(c.Get(fiber.HeaderIfNoneMatch), tag) {
		return c.SendStatus(fiber.StatusNotModified)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

func (s *Server) HandleCreateTask(c *fiber.Ctx) error {
	var req domain.Task
	if err := decodeBody(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "Invalid JSON"})
	}

	task, err := s.store.Create(req)
	if err != nil {
		return s.storeError(c, err)
	}

	s.hub.Broadcast(events.TaskCreated, &task)

	return c.Status(fiber.StatusCreated).JSON(task)
}

func (s *Server) HandleUpdateTask(c *fiber.Ctx) error {
	id, err := taskID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "Invalid task id"})
	}

	var patch domain.Patch
	if err := decodeBody(c.Body(), &patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "Invalid JSON"})
	}

	task, err := s.store.Update(id, patch)
	if err != nil {
		return s.storeError(c, err)
	}

	s.hub.Broadcast(events.TaskUpdated, &task)

	return c.JSON(task)
}

func (s *Server) HandleDeleteTask(c *fiber.Ctx) error {
	id, err := taskID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "Invalid task id"})
	}

	if err := s.store.Delete(id); err != nil {
		return s.storeError(c, err)
	}

	s.hub.Broadcast(events.TaskDeleted, &domain.Task{ID: id})

	return c.JSON(messageResponse{Message: "Task deleted successfully"})
}

// HandleEvents streams hub messages as Server-Sent Events until the client
// goes away or the hub stops.
func (s *Server) HandleEvents(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	sub := s.hub.Subscribe()
	heartbeat := s.heartbeat

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer s.hub.Unsubscribe(sub)

		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()

		if _, err := w.WriteString(": connected\n\n"); err != nil {
			return
		}
		if err := w.Flush(); err != nil {
			return
		}

		for {
			select {
			case msg, ok := <-sub.C:
				if !ok {
					return
				}
				if err := writeEvent(w, msg); err != nil {
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
			}
			// A failed flush means the client disconnected.
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))

	return nil
}

func writeEvent(w *bufio.Writer, msg events.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}

// storeError maps store failures onto status codes.
func (s *Server) storeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, filesystem.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "Task not found"})
	case errors.Is(err, filesystem.ErrStoreUnreadable):
		s.log.Error().Err(err).Str("path", c.Path()).Msg("task store unreadable")
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "Task store unreadable"})
	default:
		return err
	}
}

// taskID decodes the :id route param. Routing runs on the escaped path so ids
// containing "/" still match; the result is copied because fiber reuses the
// request buffer once the handler returns.
func taskID(c *fiber.Ctx) (string, error) {
	id, err := url.PathUnescape(c.Params("id"))
	if err != nil {
		return "", err
	}
	return utils.CopyString(id), nil
}

// decodeBody treats an empty body as an empty JSON object.
func decodeBody(body []byte, v any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return json.Unmarshal(body, v)
}
