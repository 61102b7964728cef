package web

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"openhackathon/internal/enrollment"
	"openhackathon/internal/middleware"
	"openhackathon/internal/model"
	"openhackathon/internal/validator"
	"openhackathon/internal/web/view"
)

// enrollmentModel binds a fresh enrollment model to the signed-in user and hackathon name.
func (h *Handler) enrollmentModel(c *fiber.Ctx, name string) (*enrollment.Model, error) {
	client, err := h.SessionStore.ClientOf(c)
	if err != nil {
		return nil, err
	}
	exporter, err := h.SessionStore.ExporterOf(c)
	if err != nil {
		return nil, err
	}
	return enrollment.NewModel(client, "hackathon/"+url.PathEscape(name), exporter), nil
}

func (h *Handler) ShowParticipantPage(c *fiber.Ctx) error {
	query := validator.ListQuery{
		Hackathon: c.Params("name"),
		Status:    c.Query("status"),
		Page:      c.QueryInt("page", 1),
	}
	if err := h.Validator.Validate(query); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid enrollment query")
	}

	var filter model.EnrollmentFilter
	if query.Status != "" {
		status, err := model.ParseEnrollmentStatus(query.Status)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		filter.Status = status
	}

	m, err := h.enrollmentModel(c, query.Hackathon)
	if err != nil {
		return err
	}

	items, err := m.GetList(c.UserContext(), filter, query.Page)
	if err != nil {
		return err
	}

	table := view.EnrollmentTable{
		Hackathon:  query.Hackathon,
		Status:     query.Status,
		Page:       query.Page,
		Items:      items,
		TotalCount: m.TotalCount(),
		HasNext:    !m.NoMore() || len(m.AllItems()) > query.Page*m.PageSize,
		ExportURL:  m.ExportURL(),
	}
	return render(c, view.EnrollmentPage(h.page(c, "enrollment.title"), table))
}

func (h *Handler) VerifyParticipant(c *fiber.Ctx) error {
	form := validator.VerifyForm{
		Hackathon: c.Params("name"),
		UserID:    c.Params("userId"),
	}
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid verify form")
	}
	if err := h.Validator.Validate(form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid verify form")
	}

	operator := middleware.User(c)
	if err := h.Limiter.CheckVerify(c.UserContext(), operator.ID); err != nil {
		return err
	}

	m, err := h.enrollmentModel(c, form.Hackathon)
	if err != nil {
		return err
	}
	status := model.EnrollmentStatus(form.Status)
	if err := m.VerifyOne(c.UserContext(), form.UserID, status); err != nil {
		return err
	}

	middleware.LoggerOf(c).Info("Enrollment verified",
		"hackathon", form.Hackathon,
		"user_id", form.UserID,
		"status", status,
		"operator_id", operator.ID,
	)

	if wantsJSON(c) {
		return JSONResponse(c, fiber.StatusOK, JSONResponseBody{
			Status: APIResponseStatusSuccess,
			Data:   fiber.Map{"userId": form.UserID, "status": status},
		})
	}
	return c.Redirect(view.ParticipantURL(form.Hackathon), fiber.StatusSeeOther)
}

type statisticData struct {
	Hackathon  string               `json:"hackathon"`
	TotalCount int                  `json:"totalCount"`
	Statistic  enrollment.Statistic `json:"statistic"`
}

func (h *Handler) statistic(c *fiber.Ctx) (statisticData, error) {
	name := c.Params("name")
	if err := h.Validator.Validate(validator.ListQuery{Hackathon: name, Page: 1}); err != nil {
		return statisticData{}, fiber.NewError(fiber.StatusBadRequest, "invalid hackathon name")
	}

	m, err := h.enrollmentModel(c, name)
	if err != nil {
		return statisticData{}, err
	}
	stat, err := m.GetStatistic(c.UserContext())
	if err != nil {
		return statisticData{}, err
	}
	return statisticData{Hackathon: name, TotalCount: m.TotalCount(), Statistic: stat}, nil
}

func (h *Handler) ShowStatistic(c *fiber.Ctx) error {
	data, err := h.statistic(c)
	if err != nil {
		return err
	}

	if wantsJSON(c) {
		return JSONResponse(c, fiber.StatusOK, JSONResponseBody{Status: APIResponseStatusSuccess, Data: data})
	}
	return render(c, view.StatisticPage(h.page(c, "statistic.title"), view.StatisticView{
		Hackathon:  data.Hackathon,
		TotalCount: data.TotalCount,
		Statistic:  data.Statistic,
	}))
}

func (h *Handler) ArchiveStatistic(c *fiber.Ctx) error {
	if h.Archiver == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "archive storage is not configured")
	}

	data, err := h.statistic(c)
	if err != nil {
		return err
	}
	receipt, err := h.Archiver.Save(c.UserContext(), data.Hackathon, data.TotalCount, data.Statistic)
	if err != nil {
		return err
	}

	if wantsJSON(c) {
		return JSONResponse(c, fiber.StatusCreated, JSONResponseBody{Status: APIResponseStatusSuccess, Data: receipt})
	}
	c.Status(fiber.StatusCreated)
	return render(c, view.StatisticPage(h.page(c, "statistic.title"), view.StatisticView{
		Hackathon:   data.Hackathon,
		TotalCount:  data.TotalCount,
		Statistic:   data.Statistic,
		ArchivedURL: receipt.URL,
	}))
}

// ShowSessionEnrollment answers the signed-in user's own enrollment in a hackathon.
func (h *Handler) ShowSessionEnrollment(c *fiber.Ctx) error {
	m, err := h.enrollmentModel(c, c.Params("name"))
	if err != nil {
		return err
	}
	one, err := m.GetSessionOne(c.UserContext())
	if err != nil {
		return err
	}
	return JSONResponse(c, fiber.StatusOK, JSONResponseBody{Status: APIResponseStatusSuccess, Data: one})
}

// ShowArchive serves a snapshot kept in local archive storage. Keys start with the
// hackathon name, and only users the API lets list that hackathon's enrollments may read it.
func (h *Handler) ShowArchive(c *fiber.Ctx) error {
	if h.Archiver == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "archive storage is not configured")
	}

	key := c.Params("*")
	name, _, _ := strings.Cut(key, "/")
	if err := h.Validator.Validate(validator.ListQuery{Hackathon: name, Page: 1}); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid archive key")
	}

	m, err := h.enrollmentModel(c, name)
	if err != nil {
		return err
	}
	if _, err := m.GetList(c.UserContext(), model.EnrollmentFilter{}, 1); err != nil {
		return err
	}

	snapshot, err := h.Archiver.Load(c.UserContext(), key)
	if err != nil {
		return err
	}
	if snapshot.Hackathon != name {
		return fiber.ErrNotFound
	}
	return JSONResponse(c, fiber.StatusOK, JSONResponseBody{Status: APIResponseStatusSuccess, Data: snapshot})
}
