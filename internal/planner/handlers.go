package planner

import (
	"errors"

	"github.com/alexgasconn/RacePlanner/internal/plan"
	"github.com/alexgasconn/RacePlanner/internal/segment"
	"github.com/alexgasconn/RacePlanner/internal/track"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

func RegisterRoutes(r fiber.Router, svc *Service, defaultSegmentLengthM float64) {
	r.Post("/:id/plan", func(c *fiber.Ctx) error {
		var opts plan.Options
		if err := c.BodyParser(&opts); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if opts.SegmentLengthM == 0 {
			opts.SegmentLengthM = defaultSegmentLengthM
		}

		resp, err := svc.BuildPlan(c.Context(), c.Params("id"), opts)
		if err != nil {
			return planError(err)
		}
		return c.JSON(resp)
	})

	r.Get("/:id/segments", func(c *fiber.Ctx) error {
		lengthM := defaultSegmentLengthM
		if q := c.QueryFloat("length_m"); q != 0 {
			lengthM = q
		}

		resp, err := svc.Segments(c.Context(), c.Params("id"), lengthM)
		if err != nil {
			return planError(err)
		}
		return c.JSON(resp)
	})
}

func planError(err error) error {
	switch {
	case errors.Is(err, plan.ErrInvalidConfig), errors.Is(err, segment.ErrInvalidLength):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, plan.ErrEmptyTrack), errors.Is(err, track.ErrEmptyTrack):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, pgx.ErrNoRows):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
