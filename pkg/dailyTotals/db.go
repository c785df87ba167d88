package dailyTotals

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bankStatementReport/constants"
)

// dailyTotalsDocument is the stored form of one day of one report scope.
type dailyTotalsDocument struct {
	Scope             string               `bson:"scope"`
	Accounts          []string             `bson:"accounts"`
	Date              time.Time            `bson:"date"`
	MoneyIn           primitive.Decimal128 `bson:"money_in"`
	MoneyOut          primitive.Decimal128 `bson:"money_out"`
	MoneyInReference  primitive.Decimal128 `bson:"money_in_reference"`
	MoneyOutReference primitive.Decimal128 `bson:"money_out_reference"`
	ReferenceCurrency string               `bson:"reference_currency"`
	LastUpdated       time.Time            `bson:"last_updated"`
}

type Repository struct {
	collection *mongo.Collection
}

// Connect opens and pings a MongoDB client.
func Connect(ctx context.Context, mongoURI string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err = client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return client, nil
}

func NewRepository(ctx context.Context, db *mongo.Database) (*Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	collection := db.Collection(constants.DAILY_TOTALS_SCHEMA)
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "scope", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create daily totals index: %w", err)
	}

	return &Repository{
		collection: collection,
	}, nil
}

// SaveReport upserts every day of the report, replacing earlier totals for
// the same accounts and date.
func (r *Repository) SaveReport(ctx context.Context, report Report) error {
	if len(report.Days) == 0 {
		return nil
	}

	now := time.Now().UTC()
	models := make([]mongo.WriteModel, 0, len(report.Days))
	for _, day := range report.Days {
		doc, err := toDocument(report.Accounts, day, now)
		if err != nil {
			return err
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"scope": doc.Scope, "date": doc.Date}).
			SetUpdate(bson.M{"$set": doc}).
			SetUpsert(true))
	}

	if _, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("failed to upsert daily totals: %w", err)
	}

	return nil
}

// GetDailyTotalsByDateRange retrieves stored totals for accounts within [start, end].
func (r *Repository) GetDailyTotalsByDateRange(ctx context.Context, accounts []string, start, end time.Time) ([]DailyTotals, error) {
	filter := bson.M{
		"scope": scopeOf(accounts),
		"date": bson.M{
			"$gte": DayOf(start),
			"$lte": DayOf(end),
		},
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query daily totals: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []dailyTotalsDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode daily totals: %w", err)
	}

	days := make([]DailyTotals, 0, len(docs))
	for _, doc := range docs {
		day, err := fromDocument(doc)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}

// scopeOf is the order-independent key of an account set.
func scopeOf(accounts []string) string {
	sorted := append([]string(nil), accounts...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

func toDocument(accounts []string, day DailyTotals, now time.Time) (dailyTotalsDocument, error) {
	doc := dailyTotalsDocument{
		Scope:             scopeOf(accounts),
		Accounts:          accounts,
		Date:              DayOf(day.Date),
		ReferenceCurrency: constants.REFERENCE_CURRENCY,
		LastUpdated:       now,
	}

	fields := []struct {
		dst *primitive.Decimal128
		src decimal.Decimal
	}{
		{&doc.MoneyIn, day.MoneyIn},
		{&doc.MoneyOut, day.MoneyOut},
		{&doc.MoneyInReference, day.MoneyInReference},
		{&doc.MoneyOutReference, day.MoneyOutReference},
	}
	for _, f := range fields {
		v, err := primitive.ParseDecimal128(f.src.String())
		if err != nil {
			return dailyTotalsDocument{}, fmt.Errorf("%w: %v", ErrSerialization, err)
		}
		*f.dst = v
	}

	return doc, nil
}

func fromDocument(doc dailyTotalsDocument) (DailyTotals, error) {
	day := DailyTotals{Date: DayOf(doc.Date)}

	fields := []struct {
		dst *decimal.Decimal
		src primitive.Decimal128
	}{
		{&day.MoneyIn, doc.MoneyIn},
		{&day.MoneyOut, doc.MoneyOut},
		{&day.MoneyInReference, doc.MoneyInReference},
		{&day.MoneyOutReference, doc.MoneyOutReference},
	}
	for _, f := range fields {
		v, err := decimal.NewFromString(f.src.String())
		if err != nil {
			return DailyTotals{}, fmt.Errorf("%w: %v", ErrSerialization, err)
		}
		*f.dst = v
	}

	return day, nil
}
