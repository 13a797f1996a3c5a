package conversationrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"medifind-server/intake-api/internal/domain/conversation"
	"medifind-server/intake-api/internal/domain/query"
	"medifind-server/intake-api/internal/infrastructure/database/dbschema"
	"medifind-server/intake-api/internal/infrastructure/database/transaction"
	"medifind-server/intake-api/internal/utils/functional"
	"medifind-server/intake-api/internal/utils/platformerrors"
)

// pgUniqueViolation is the Postgres error code for unique constraint breaches.
const pgUniqueViolation = "23505"

type ConversationGormRepository struct {
	db *transaction.Database
}

var _ conversation.ConversationRepository = (*ConversationGormRepository)(nil)

func NewConversationGormRepository(db *transaction.Database) conversation.ConversationRepository {
	return &ConversationGormRepository{db}
}

// Create implements conversation.ConversationRepository.
func (repo *ConversationGormRepository) Create(ctx context.Context, conv *conversation.Conversation) error {
	model := dbschema.NewSchemaConversation(conv)
	if err := repo.db.GetTx(ctx).WithContext(ctx).Create(model).Error; err != nil {
		return repo.wrapWriteError(ctx, err, "failed to create conversation")
	}
	// Update the domain object with generated ID and timestamps
	conv.ID = model.ID
	conv.CreatedAt = model.CreatedAt
	conv.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByFilter implements conversation.ConversationRepository.
func (repo *ConversationGormRepository) FindByFilter(ctx context.Context, filter conversation.ConversationFilter, pagination *query.Pagination) ([]*conversation.Conversation, error) {
	sql := repo.applyFilter(repo.db.GetTx(ctx).WithContext(ctx).Model(&dbschema.Conversation{}), filter)
	sql = applyPagination(sql, pagination)

	var rows []*dbschema.Conversation
	if err := sql.Find(&rows).Error; err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to find conversations")
	}

	return functional.Map(rows, func(item *dbschema.Conversation) *conversation.Conversation {
		return item.EtoD()
	}), nil
}

// Count implements conversation.ConversationRepository.
func (repo *ConversationGormRepository) Count(ctx context.Context, filter conversation.ConversationFilter) (int64, error) {
	var total int64
	sql := repo.applyFilter(repo.db.GetTx(ctx).WithContext(ctx).Model(&dbschema.Conversation{}), filter)
	if err := sql.Count(&total).Error; err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to count conversations")
	}
	return total, nil
}

// FindByID implements conversation.ConversationRepository.
func (repo *ConversationGormRepository) FindByID(ctx context.Context, id uint) (*conversation.Conversation, error) {
	return repo.findOne(ctx, conversation.ConversationFilter{ID: &id})
}

// FindByPublicID implements conversation.ConversationRepository.
func (repo *ConversationGormRepository) FindByPublicID(ctx context.Context, publicID string) (*conversation.Conversation, error) {
	return repo.findOne(ctx, conversation.ConversationFilter{PublicID: &publicID})
}

func (repo *ConversationGormRepository) findOne(ctx context.Context, filter conversation.ConversationFilter) (*conversation.Conversation, error) {
	var row dbschema.Conversation
	sql := repo.applyFilter(repo.db.GetTx(ctx).WithContext(ctx).Model(&dbschema.Conversation{}), filter)
	if err := sql.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
				"conversation not found", err, "3b4c5d6e-7f8a-49b0-c1d2-e3f4a5b6c7d8")
		}
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to find conversation")
	}
	return row.EtoD(), nil
}

// Update implements conversation.ConversationRepository.
func (repo *ConversationGormRepository) Update(ctx context.Context, conv *conversation.Conversation) error {
	model := dbschema.NewSchemaConversation(conv)
	if err := repo.db.GetTx(ctx).WithContext(ctx).Save(model).Error; err != nil {
		return repo.wrapWriteError(ctx, err, "failed to update conversation")
	}
	conv.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete implements conversation.ConversationRepository.
func (repo *ConversationGormRepository) Delete(ctx context.Context, id uint) error {
	err := repo.db.GetTx(ctx).WithContext(ctx).
		Model(&dbschema.Conversation{}).
		Where("id = ?", id).
		Update("status", conversation.ConversationStatusDeleted).Error
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to delete conversation")
	}
	return nil
}

// AddMessage implements conversation.ConversationRepository.
func (repo *ConversationGormRepository) AddMessage(ctx context.Context, conversationID uint, message *conversation.Message) error {
	return repo.BulkAddMessages(ctx, conversationID, []*conversation.Message{message})
}

// BulkAddMessages implements conversation.ConversationRepository.
func (repo *ConversationGormRepository) BulkAddMessages(ctx context.Context, conversationID uint, messages []*conversation.Message) error {
	if len(messages) == 0 {
		return nil
	}

	models := make([]*dbschema.Message, len(messages))
	for i, msg := range messages {
		msg.ConversationID = conversationID
		models[i] = dbschema.NewSchemaMessage(msg)
	}

	if err := repo.db.GetTx(ctx).WithContext(ctx).Create(&models).Error; err != nil {
		return repo.wrapWriteError(ctx, err, "failed to insert messages")
	}

	for i, model := range models {
		messages[i].ID = model.ID
		messages[i].CreatedAt = model.CreatedAt
	}
	return nil
}

// GetMessages implements conversation.ConversationRepository.
func (repo *ConversationGormRepository) GetMessages(ctx context.Context, conversationID uint, pagination *query.Pagination) ([]*conversation.Message, error) {
	sql := repo.db.GetTx(ctx).WithContext(ctx).
		Model(&dbschema.Message{}).
		Where("conversation_id = ?", conversationID)
	sql = applyPagination(sql, pagination)

	var rows []*dbschema.Message
	if err := sql.Find(&rows).Error; err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to find messages")
	}

	return functional.Map(rows, func(item *dbschema.Message) *conversation.Message {
		return item.EtoD()
	}), nil
}

// GetMessageByPublicID implements conversation.ConversationRepository.
func (repo *ConversationGormRepository) GetMessageByPublicID(ctx context.Context, conversationID uint, publicID string) (*conversation.Message, error) {
	var row dbschema.Message
	err := repo.db.GetTx(ctx).WithContext(ctx).
		Model(&dbschema.Message{}).
		Where("conversation_id = ? AND public_id = ?", conversationID, publicID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
				"message not found", err, "4c5d6e7f-8a9b-40c1-d2e3-f4a5b6c7d8e9")
		}
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to find message")
	}
	return row.EtoD(), nil
}

// CountMessages implements conversation.ConversationRepository.
func (repo *ConversationGormRepository) CountMessages(ctx context.Context, conversationID uint) (int, error) {
	var total int64
	err := repo.db.GetTx(ctx).WithContext(ctx).
		Model(&dbschema.Message{}).
		Where("conversation_id = ?", conversationID).
		Count(&total).Error
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to count messages")
	}
	return int(total), nil
}

// DeleteStaleAnonymous implements conversation.ConversationRepository. Both
// deletes run in one transaction, messages first so the conversation rows
// never orphan them.
func (repo *ConversationGormRepository) DeleteStaleAnonymous(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	err := repo.db.Transaction(ctx, func(ctx context.Context) error {
		tx := repo.db.GetTx(ctx).WithContext(ctx)

		stale := tx.Model(&dbschema.Conversation{}).
			Select("id").
			Where("user_id IS NULL AND updated_at < ?", cutoff)

		if err := tx.Where("conversation_id IN (?)", stale).Delete(&dbschema.Message{}).Error; err != nil {
			return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to delete stale messages")
		}

		result := tx.Where("user_id IS NULL AND updated_at < ?", cutoff).Delete(&dbschema.Conversation{})
		if result.Error != nil {
			return platformerrors.AsError(ctx, platformerrors.LayerRepository, result.Error, "failed to delete stale conversations")
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func (repo *ConversationGormRepository) applyFilter(sql *gorm.DB, filter conversation.ConversationFilter) *gorm.DB {
	if filter.ID != nil {
		sql = sql.Where("id = ?", *filter.ID)
	}
	if filter.PublicID != nil {
		sql = sql.Where("public_id = ?", *filter.PublicID)
	}
	if filter.UserID != nil {
		sql = sql.Where("user_id = ?", *filter.UserID)
	}
	if filter.Stage != nil {
		sql = sql.Where("stage = ?", string(*filter.Stage))
	}
	if filter.Status != nil {
		sql = sql.Where("status = ?", *filter.Status)
	} else {
		sql = sql.Where("status <> ?", conversation.ConversationStatusDeleted)
	}
	return sql
}

func applyPagination(sql *gorm.DB, p *query.Pagination) *gorm.DB {
	if p != nil {
		if p.Limit != nil && *p.Limit > 0 {
			sql = sql.Limit(*p.Limit)
		}
		if p.After != nil {
			if p.Descending() {
				sql = sql.Where("id < ?", *p.After)
			} else {
				sql = sql.Where("id > ?", *p.After)
			}
		}
	}
	if p.Descending() {
		return sql.Order("id DESC")
	}
	return sql.Order("id ASC")
}

func (repo *ConversationGormRepository) wrapWriteError(ctx context.Context, err error, message string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeConflict,
			message, err, "5d6e7f8a-9b0c-41d2-e3f4-a5b6c7d8e9f0")
	}
	return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, message)
}
