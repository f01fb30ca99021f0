package service

import (
	"context"
	"log"

	moduleRepo "anoa.com/academicrecords/internal/modules/module/repository"
	userRepo "anoa.com/academicrecords/internal/modules/user/repository"
)

// Reindex pushes every user and module to the search engine. Edits made to
// the flat files outside the service are picked up on the next start.
func Reindex(ctx context.Context, svc SearchService, users userRepo.UserRepository, modules moduleRepo.ModuleRepository) error {
	if !svc.Enabled() {
		return nil
	}

	allUsers, err := users.FindAll(ctx)
	if err != nil {
		return err
	}
	if err := svc.IndexUsers(allUsers...); err != nil {
		return err
	}

	allModules, err := modules.FindAll(ctx)
	if err != nil {
		return err
	}
	if err := svc.IndexModules(allModules...); err != nil {
		return err
	}

	log.Printf("Reindexed %d users and %d modules", len(allUsers), len(allModules))
	return nil
}
