package service

import (
	"context"
	"net/url"

	"silant-backend/internal/access"
	"silant-backend/internal/apperr"
	"silant-backend/internal/listing"
	"silant-backend/internal/model"
)

func (s *Service) ListDirectories(ctx context.Context, actor access.Actor, params url.Values) ([]model.Directory, error) {
	if err := access.Authorize(actor, access.ResourceDirectory, access.ActionList); err != nil {
		return nil, err
	}
	q, err := listing.Parse(listing.Directories, params)
	if err != nil {
		return nil, err
	}
	dirs, err := s.store.ListDirectories(ctx, access.DirectoryVisibility(actor), q)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return dirs, nil
}

func (s *Service) GetDirectory(ctx context.Context, actor access.Actor, id int64) (*model.Directory, error) {
	if err := access.Authorize(actor, access.ResourceDirectory, access.ActionRead); err != nil {
		return nil, err
	}
	d, err := s.store.GetDirectory(ctx, id)
	if err != nil {
		return nil, storeErr(err, "directory entry")
	}
	if !access.DirectoryVisibility(actor).Allows(nil, nil) {
		return nil, apperr.NotFound("directory entry not found")
	}
	return d, nil
}

func (s *Service) CreateDirectory(ctx context.Context, actor access.Actor, in DirectoryInput) (*model.Directory, error) {
	if err := access.Authorize(actor, access.ResourceDirectory, access.ActionCreate); err != nil {
		return nil, err
	}
	d := &model.Directory{}
	if err := s.applyDirectory(d, in, false); err != nil {
		return nil, err
	}
	if err := s.store.CreateDirectory(ctx, d); err != nil {
		return nil, apperr.Internal(err)
	}
	return d, nil
}

func (s *Service) UpdateDirectory(ctx context.Context, actor access.Actor, id int64, in DirectoryInput, partial bool) (*model.Directory, error) {
	if err := access.Authorize(actor, access.ResourceDirectory, access.ActionUpdate); err != nil {
		return nil, err
	}
	d, err := s.store.GetDirectory(ctx, id)
	if err != nil {
		return nil, storeErr(err, "directory entry")
	}
	if err := s.applyDirectory(d, in, partial); err != nil {
		return nil, err
	}
	if err := s.store.UpdateDirectory(ctx, d); err != nil {
		return nil, apperr.Internal(err)
	}
	return d, nil
}

// DeleteDirectory removes an entry; records that referenced it keep
// existing with the reference cleared.
func (s *Service) DeleteDirectory(ctx context.Context, actor access.Actor, id int64) error {
	if err := access.Authorize(actor, access.ResourceDirectory, access.ActionDelete); err != nil {
		return err
	}
	if err := s.store.DeleteDirectory(ctx, id); err != nil {
		return storeErr(err, "directory entry")
	}
	return nil
}

func (s *Service) applyDirectory(d *model.Directory, in DirectoryInput, partial bool) error {
	var fe apperr.FieldErrors
	if err := s.checkStruct(&fe, in); err != nil {
		return err
	}
	requireText(&fe, "category", in.Category, partial)
	requireText(&fe, "name", in.Name, partial)
	if err := fe.Err(); err != nil {
		return err
	}

	setText(&d.Category, in.Category, partial)
	setText(&d.Name, in.Name, partial)
	setText(&d.Description, in.Description, partial)
	return nil
}
