package service

import (
	"context"
	"fmt"
	"io"

	"pizza-paradise/internal/asset"
	"pizza-paradise/internal/model"
	"pizza-paradise/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// catalogService implements CatalogService.
type catalogService struct {
	pizzaRepo   repository.PizzaRepository
	toppingRepo repository.ToppingRepository
	images      asset.Store
	logger      zerolog.Logger
}

// NewCatalogService creates a new catalogue service.
func NewCatalogService(
	pizzaRepo repository.PizzaRepository,
	toppingRepo repository.ToppingRepository,
	images asset.Store,
	logger zerolog.Logger,
) CatalogService {
	return &catalogService{
		pizzaRepo:   pizzaRepo,
		toppingRepo: toppingRepo,
		images:      images,
		logger:      logger.With().Str("service", "catalog").Logger(),
	}
}

func (s *catalogService) GetPizzas(ctx context.Context) ([]model.Pizza, error) {
	return s.pizzaRepo.GetAll(ctx)
}

func (s *catalogService) GetPizza(ctx context.Context, id int64) (*model.Pizza, error) {
	pizza, err := s.pizzaRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if pizza == nil {
		return nil, model.ErrPizzaNotFound
	}
	return pizza, nil
}

// CreatePizza adds a pizza to the catalogue. When an image is supplied it
// is stored first and the resulting URL persisted with the pizza.
func (s *catalogService) CreatePizza(ctx context.Context, name, description string, price decimal.Decimal, image io.Reader, imageName string) (*model.Pizza, error) {
	existing, err := s.pizzaRepo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up pizza: %w", err)
	}
	if existing != nil {
		return nil, model.ErrPizzaNameTaken
	}

	var imageURL string
	if image != nil {
		imageURL, err = s.images.Save(ctx, image, name, imageName)
		if err != nil {
			return nil, model.NewDomainError(model.ErrCodeStorageFailure, "Failed to store pizza image")
		}
	}

	pizza := &model.Pizza{
		Name:        name,
		Description: description,
		Image:       imageURL,
		Price:       price,
	}
	if err := s.pizzaRepo.Create(ctx, pizza); err != nil {
		return nil, fmt.Errorf("failed to create pizza: %w", err)
	}

	s.logger.Info().Int64("pizza_id", pizza.ID).Str("name", pizza.Name).Msg("pizza created")
	return pizza, nil
}

func (s *catalogService) UpdatePizza(ctx context.Context, id int64, req *model.PizzaUpdateRequest) (*model.Pizza, error) {
	pizza, err := s.pizzaRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if pizza == nil {
		return nil, model.ErrPizzaNotFound
	}

	if req.Name != "" && req.Name != pizza.Name {
		conflict, err := s.pizzaRepo.GetByName(ctx, req.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to look up pizza: %w", err)
		}
		if conflict != nil {
			return nil, model.ErrPizzaNameTaken
		}
		pizza.Name = req.Name
	}
	if req.Description != "" {
		pizza.Description = req.Description
	}
	if !req.Price.IsZero() {
		pizza.Price = req.Price
	}

	if err := s.pizzaRepo.Update(ctx, pizza); err != nil {
		return nil, fmt.Errorf("failed to update pizza: %w", err)
	}

	s.logger.Info().Int64("pizza_id", id).Msg("pizza updated")
	return pizza, nil
}

func (s *catalogService) DeletePizza(ctx context.Context, id int64) error {
	pizza, err := s.pizzaRepo.GetByID(ctx, nil, id)
	if err != nil {
		return err
	}
	if pizza == nil {
		return model.ErrPizzaNotFound
	}

	if err := s.pizzaRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete pizza: %w", err)
	}

	s.logger.Info().Int64("pizza_id", id).Msg("pizza deleted")
	return nil
}

func (s *catalogService) GetToppings(ctx context.Context) ([]model.Topping, error) {
	return s.toppingRepo.GetAll(ctx)
}

func (s *catalogService) GetTopping(ctx context.Context, id int64) (*model.Topping, error) {
	topping, err := s.toppingRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if topping == nil {
		return nil, model.ErrToppingNotFound
	}
	return topping, nil
}

func (s *catalogService) CreateTopping(ctx context.Context, req *model.ToppingRequest) (*model.Topping, error) {
	existing, err := s.toppingRepo.GetByName(ctx, req.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up topping: %w", err)
	}
	if existing != nil {
		return nil, model.ErrToppingNameTaken
	}

	topping := &model.Topping{
		Name:  req.Name,
		Price: req.Price,
	}
	if err := s.toppingRepo.Create(ctx, topping); err != nil {
		return nil, fmt.Errorf("failed to create topping: %w", err)
	}

	s.logger.Info().Int64("topping_id", topping.ID).Str("name", topping.Name).Msg("topping created")
	return topping, nil
}

func (s *catalogService) UpdateTopping(ctx context.Context, id int64, req *model.ToppingRequest) (*model.Topping, error) {
	topping, err := s.toppingRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if topping == nil {
		return nil, model.ErrToppingNotFound
	}

	if req.Name != "" && req.Name != topping.Name {
		conflict, err := s.toppingRepo.GetByName(ctx, req.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to look up topping: %w", err)
		}
		if conflict != nil {
			return nil, model.ErrToppingNameTaken
		}
		topping.Name = req.Name
	}
	if !req.Price.IsZero() {
		topping.Price = req.Price
	}

	if err := s.toppingRepo.Update(ctx, topping); err != nil {
		return nil, fmt.Errorf("failed to update topping: %w", err)
	}

	s.logger.Info().Int64("topping_id", id).Msg("topping updated")
	return topping, nil
}

func (s *catalogService) DeleteTopping(ctx context.Context, id int64) error {
	topping, err := s.toppingRepo.GetByID(ctx, nil, id)
	if err != nil {
		return err
	}
	if topping == nil {
		return model.ErrToppingNotFound
	}

	if err := s.toppingRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete topping: %w", err)
	}

	s.logger.Info().Int64("topping_id", id).Msg("topping deleted")
	return nil
}
