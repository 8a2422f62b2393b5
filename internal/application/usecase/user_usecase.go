package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/application/ports"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
	"github.com/jhoicas/tienda-api/pkg/logger"
)

// UserUseCase aplica reglas de negocio para usuarios.
// Eliminar un usuario no elimina sus órdenes.
type UserUseCase struct {
	repo   repository.UserRepository
	images imageStore
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia y el almacenamiento de imágenes.
func NewUserUseCase(repo repository.UserRepository, storage ports.FileStorage, log *logger.Logger) *UserUseCase {
	return &UserUseCase{repo: repo, images: imageStore{storage: storage, log: log}}
}

// Create registra un usuario. La imagen es opcional.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest, image *dto.FileUpload) (*dto.UserResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	path, err := uc.images.put(ctx, image)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:         uuid.New().String(),
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		Address:    in.Address,
		City:       in.City,
		PostalCode: in.PostalCode,
		State:      in.State,
		FirebaseID: in.FirebaseID,
		Image:      path,
		OrderIDs:   []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		uc.images.discard(ctx, path)
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

// List devuelve todos los usuarios.
func (uc *UserUseCase) List(ctx context.Context) ([]*dto.UserResponse, error) {
	users, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.NewUserResponse(u))
	}
	return out, nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.byID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

// GetByFirebaseID obtiene un usuario por su identificador externo.
func (uc *UserUseCase) GetByFirebaseID(ctx context.Context, firebaseID string) (*dto.UserResponse, error) {
	user, err := uc.byFirebaseID(ctx, firebaseID)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

// Update actualiza los datos de perfil de un usuario por ID.
func (uc *UserUseCase) Update(ctx context.Context, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.byID(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.applyUpdate(ctx, user, in)
}

// UpdateByFirebaseID actualiza los datos de perfil de un usuario por su identificador externo.
func (uc *UserUseCase) UpdateByFirebaseID(ctx context.Context, firebaseID string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.byFirebaseID(ctx, firebaseID)
	if err != nil {
		return nil, err
	}
	return uc.applyUpdate(ctx, user, in)
}

// UpdateImage reemplaza la imagen del usuario; la anterior se elimina sin bloquear la operación.
func (uc *UserUseCase) UpdateImage(ctx context.Context, id string, image *dto.FileUpload) (*dto.UserResponse, error) {
	if image == nil {
		return nil, domain.NewValidationError("image es requerida")
	}
	user, err := uc.byID(ctx, id)
	if err != nil {
		return nil, err
	}
	path, err := uc.images.put(ctx, image)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateImage(ctx, id, path); err != nil {
		uc.images.discard(ctx, path)
		return nil, err
	}
	old := user.Image
	user.Image = path
	uc.images.discard(ctx, old)
	return dto.NewUserResponse(user), nil
}

// Delete elimina el usuario por ID y su imagen.
func (uc *UserUseCase) Delete(ctx context.Context, id string) error {
	user, err := uc.byID(ctx, id)
	if err != nil {
		return err
	}
	return uc.delete(ctx, user)
}

// DeleteByFirebaseID elimina el usuario por su identificador externo y su imagen.
func (uc *UserUseCase) DeleteByFirebaseID(ctx context.Context, firebaseID string) error {
	user, err := uc.byFirebaseID(ctx, firebaseID)
	if err != nil {
		return err
	}
	return uc.delete(ctx, user)
}

func (uc *UserUseCase) delete(ctx context.Context, user *entity.User) error {
	if err := uc.repo.Delete(ctx, user.ID); err != nil {
		return err
	}
	uc.images.discard(ctx, user.Image)
	return nil
}

func (uc *UserUseCase) applyUpdate(ctx context.Context, user *entity.User, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&user.Name, in.Name)
	set(&user.Email, in.Email)
	set(&user.Phone, in.Phone)
	set(&user.Address, in.Address)
	set(&user.City, in.City)
	set(&user.PostalCode, in.PostalCode)
	set(&user.State, in.State)
	if user.Name == "" || user.Email == "" {
		return nil, domain.NewValidationError("name y email no pueden quedar vacíos")
	}
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

func (uc *UserUseCase) byID(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (uc *UserUseCase) byFirebaseID(ctx context.Context, firebaseID string) (*entity.User, error) {
	user, err := uc.repo.GetByFirebaseID(ctx, firebaseID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}
