package firestore

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"github.com/hashcare/hashcare/pkg/domain/interfaces"
	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/hashcare/hashcare/pkg/domain/types"
	"github.com/hashcare/hashcare/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const accountsCollection = "accounts"

type accountRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.AccountRepository = &accountRepository{}

func newAccountRepository(client *firestore.Client) *accountRepository {
	return &accountRepository{
		client: client,
	}
}

// accountDoc is the Firestore persistence model
type accountDoc struct {
	Name                  string `firestore:"name"`
	Email                 string `firestore:"email"`
	Role                  string `firestore:"role"`
	Height                string `firestore:"height"`
	Weight                string `firestore:"weight"`
	BloodType             string `firestore:"blood_type"`
	Gender                string `firestore:"gender"`
	EmergencyContactName  string `firestore:"emergency_contact_name"`
	EmergencyContactPhone string `firestore:"emergency_contact_phone"`
	Avatar                string `firestore:"avatar"`
	Password              string `firestore:"password"`
}

func (r *accountRepository) collection() *firestore.CollectionRef {
	if r.collectionPrefix != "" {
		return r.client.Collection(r.collectionPrefix + "_" + accountsCollection)
	}
	return r.client.Collection(accountsCollection)
}

func (r *accountRepository) toDoc(a *model.Account) *accountDoc {
	return &accountDoc{
		Name:                  a.Name,
		Email:                 model.NormalizeEmail(a.Email),
		Role:                  string(a.Role),
		Height:                a.Height,
		Weight:                a.Weight,
		BloodType:             a.BloodType,
		Gender:                a.Gender,
		EmergencyContactName:  a.EmergencyContactName,
		EmergencyContactPhone: a.EmergencyContactPhone,
		Avatar:                a.Avatar,
		Password:              a.Password,
	}
}

func (r *accountRepository) fromDoc(doc *accountDoc) *model.Account {
	return &model.Account{
		UserProfile: model.UserProfile{
			Name:                  doc.Name,
			Email:                 doc.Email,
			Role:                  types.UserRole(doc.Role),
			Height:                doc.Height,
			Weight:                doc.Weight,
			BloodType:             doc.BloodType,
			Gender:                doc.Gender,
			EmergencyContactName:  doc.EmergencyContactName,
			EmergencyContactPhone: doc.EmergencyContactPhone,
			Avatar:                doc.Avatar,
		},
		Password: doc.Password,
	}
}

// ensureDefaults seeds the default accounts into an empty collection
func (r *accountRepository) ensureDefaults(ctx context.Context) error {
	iter := r.collection().Limit(1).Documents(ctx)
	defer iter.Stop()

	_, err := iter.Next()
	if err == nil {
		return nil
	}
	if !errors.Is(err, iterator.Done) {
		return goerr.Wrap(err, "failed to probe accounts collection")
	}

	for _, a := range model.DefaultAccounts() {
		if err := r.Create(ctx, &a); err != nil && !errors.Is(err, model.ErrAlreadyExists) {
			return err
		}
	}
	logging.From(ctx).Info("seeded default accounts", "collection", r.collection().ID)
	return nil
}

// Get retrieves an account by email
func (r *accountRepository) Get(ctx context.Context, email string) (*model.Account, error) {
	key := model.NormalizeEmail(email)
	doc, err := r.collection().Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrNotFound, "account not found", goerr.V(model.EmailKey, key))
		}
		return nil, goerr.Wrap(err, "failed to get account", goerr.V(model.EmailKey, key))
	}

	var data accountDoc
	if err := doc.DataTo(&data); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal account", goerr.V(model.EmailKey, key))
	}
	return r.fromDoc(&data), nil
}

// List returns every account ordered by email
func (r *accountRepository) List(ctx context.Context) ([]*model.Account, error) {
	iter := r.collection().OrderBy("email", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var accounts []*model.Account
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate accounts")
		}

		var data accountDoc
		if err := doc.DataTo(&data); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal account", goerr.V("docID", doc.Ref.ID))
		}
		accounts = append(accounts, r.fromDoc(&data))
	}
	return accounts, nil
}

// Create adds a new account. Firestore rejects an existing document ID.
func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	data := r.toDoc(account)
	if _, err := r.collection().Doc(data.Email).Create(ctx, data); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return goerr.Wrap(model.ErrAlreadyExists, "account already exists", goerr.V(model.EmailKey, data.Email))
		}
		return goerr.Wrap(err, "failed to create account", goerr.V(model.EmailKey, data.Email))
	}
	return nil
}

// Update replaces an existing account
func (r *accountRepository) Update(ctx context.Context, account *model.Account) error {
	data := r.toDoc(account)
	ref := r.collection().Doc(data.Email)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(model.ErrNotFound, "account not found", goerr.V(model.EmailKey, data.Email))
			}
			return goerr.Wrap(err, "failed to get account", goerr.V(model.EmailKey, data.Email))
		}
		return tx.Set(ref, data)
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return err
		}
		return goerr.Wrap(err, "failed to update account", goerr.V(model.EmailKey, data.Email))
	}
	return nil
}
