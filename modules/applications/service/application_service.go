package service

import (
	"context"
	"time"

	"github.com/smartcvnaija/jobbroker/modules/applications/model"
	"github.com/smartcvnaija/jobbroker/modules/applications/ports"
	commentPorts "github.com/smartcvnaija/jobbroker/modules/comments/ports"
	joblistingPorts "github.com/smartcvnaija/jobbroker/modules/joblistings/ports"
	resumeModel "github.com/smartcvnaija/jobbroker/modules/resumes/model"
	resumePorts "github.com/smartcvnaija/jobbroker/modules/resumes/ports"
	"go.uber.org/zap"
)

// ApplicationService owns the applicant-facing submit→status lifecycle.
// Submit copies the recruiter email from the job listing; the cover letter
// is not written at submission time.
type ApplicationService struct {
	appRepo     ports.ApplicationRepository
	listingRepo joblistingPorts.JobListingRepository
	resumeRepo  resumePorts.ResumeRepository
	commentRepo commentPorts.CommentRepository
	log         *zap.Logger
}

func NewApplicationService(
	appRepo ports.ApplicationRepository,
	listingRepo joblistingPorts.JobListingRepository,
	resumeRepo resumePorts.ResumeRepository,
	commentRepo commentPorts.CommentRepository,
	log *zap.Logger,
) *ApplicationService {
	return &ApplicationService{
		appRepo:     appRepo,
		listingRepo: listingRepo,
		resumeRepo:  resumeRepo,
		commentRepo: commentRepo,
		log:         log,
	}
}

// Submit records the applicant's intent to apply. It validates the job
// listing and resume exist and persists a row in "submitted" status; the
// caller is responsible for enqueueing the async send (the cover letter
// isn't written yet).
func (s *ApplicationService) Submit(ctx context.Context, req *model.CreateApplicationRequest) (*model.ApplicationDTO, error) {
	listing, err := s.listingRepo.GetByID(ctx, req.JobListingID)
	if err != nil {
		return nil, model.ErrJobListingRequired
	}

	resume, err := s.resumeRepo.GetByID(ctx, req.UserPhone, req.ResumeID)
	if err != nil {
		return nil, err
	}

	app := &model.Application{
		UserPhone:      req.UserPhone,
		JobListingID:   req.JobListingID,
		ResumeID:       &req.ResumeID,
		RecruiterEmail: listing.RecruiterEmail(),
		Status:         model.StatusSubmitted,
		SubmittedAt:    time.Now().UTC(),
	}

	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}

	return model.NewApplicationDTO(app, listing, nil, resume), nil
}

// SubmitFromWorker records an application row produced by the application
// worker (C8) for a job it has scored and sent, or is about to send. Unlike
// Submit, it carries no persisted ResumeID — the worker's CV came from an
// ephemeral conversation upload, not the résumé library — and it stamps the
// identity fields and CV snapshot the worker already extracted.
func (s *ApplicationService) SubmitFromWorker(
	ctx context.Context,
	userPhone, jobListingID, applicantName, applicantEmail, applicantPhone, coverLetter, cvText string,
	atsScore int,
) (*model.Application, error) {
	listing, err := s.listingRepo.GetByID(ctx, jobListingID)
	if err != nil {
		return nil, model.ErrJobListingRequired
	}

	score := atsScore
	snapshot := cvText
	app := &model.Application{
		UserPhone:      userPhone,
		JobListingID:   jobListingID,
		ApplicantName:  applicantName,
		ApplicantEmail: applicantEmail,
		ApplicantPhone: applicantPhone,
		RecruiterEmail: listing.RecruiterEmail(),
		CoverLetter:    coverLetter,
		CVTextSnapshot: &snapshot,
		ATSScore:       &score,
		Status:         model.StatusSubmitted,
		SubmittedAt:    time.Now().UTC(),
	}

	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// GetByID retrieves one application with its nested job listing, resume, and
// comment trail.
func (s *ApplicationService) GetByID(ctx context.Context, appID string) (*model.ApplicationDTO, error) {
	app, err := s.appRepo.GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}

	dto, err := s.buildDTO(ctx, app)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByApplication(ctx, appID)
	if err != nil {
		s.log.Warn("failed to fetch application comments", zap.String("application_id", appID), zap.Error(err))
	} else {
		for _, comment := range comments {
			dto.Comments = append(dto.Comments, comment.ToDTO())
		}
	}

	return dto, nil
}

func (s *ApplicationService) buildDTO(ctx context.Context, app *model.Application) (*model.ApplicationDTO, error) {
	listing, err := s.listingRepo.GetByID(ctx, app.JobListingID)
	if err != nil {
		s.log.Warn("failed to fetch job listing for application", zap.String("job_listing_id", app.JobListingID), zap.Error(err))
		listing = nil
	}

	var resume *resumeModel.Resume
	if app.ResumeID != nil {
		r, err := s.resumeRepo.GetByID(ctx, app.UserPhone, *app.ResumeID)
		if err != nil {
			s.log.Warn("failed to fetch resume for application", zap.String("resume_id", *app.ResumeID), zap.Error(err))
		} else {
			resume = r
		}
	}

	return model.NewApplicationDTO(app, listing, nil, resume), nil
}

// List returns a page of applications submitted by a given applicant phone
// number, newest first by default.
func (s *ApplicationService) List(ctx context.Context, userPhone, sortBy, sortDir string, limit, offset int) ([]*model.ApplicationDTO, int, error) {
	opts := &ports.ListOptions{Limit: limit, Offset: offset, SortBy: sortBy, SortDir: sortDir}

	apps, total, err := s.appRepo.ListByUserPhone(ctx, userPhone, opts)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]*model.ApplicationDTO, 0, len(apps))
	for _, app := range apps {
		dto, err := s.buildDTO(ctx, app)
		if err != nil {
			s.log.Error("failed to build application dto", zap.String("application_id", app.ID), zap.Error(err))
			continue
		}
		dtos = append(dtos, dto)
	}
	return dtos, total, nil
}

// UpdateOutcome is called by the application worker once it has attempted
// (or failed) the recruiter send, and by the admin PATCH route. It sets any
// of the three valid statuses without checking the current one, so a
// status can be changed more than once.
func (s *ApplicationService) UpdateOutcome(ctx context.Context, appID string, status model.ApplicationStatus, atsScore *int, failureReason *string) (*model.ApplicationDTO, error) {
	app, err := s.appRepo.GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}

	switch status {
	case model.StatusSubmitted, model.StatusEmailSent, model.StatusEmailFailed:
	default:
		return nil, model.ErrInvalidStatus
	}

	app.Status = status
	if atsScore != nil {
		app.ATSScore = atsScore
	}
	app.FailureReason = failureReason
	if status == model.StatusEmailSent {
		now := time.Now().UTC()
		app.EmailSentAt = &now
	}

	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, err
	}

	return s.buildDTO(ctx, app)
}

// Delete removes an application (admin console only; applicants can't
// retract a submitted application through the bot).
func (s *ApplicationService) Delete(ctx context.Context, appID string) error {
	return s.appRepo.Delete(ctx, appID)
}

// CountToday reports how many applications a phone number has submitted
// since midnight UTC, backing the daily quota check.
func (s *ApplicationService) CountToday(ctx context.Context, userPhone string) (int, error) {
	midnight := time.Now().UTC().Truncate(24 * time.Hour)
	return s.appRepo.CountByUserPhoneSince(ctx, userPhone, midnight)
}
