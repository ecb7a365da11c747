package repository

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/oauth2"
)

type tokenDoc struct {
	UserUUID string        `bson:"user_uuid"`
	Nonce    string        `bson:"nonce,omitempty"`
	Token    *oauth2.Token `bson:"token,omitempty"`
}

// SaveGoogleToken stores (or replaces) the user's OAuth token.
func (m *MongoDB) SaveGoogleToken(userUUID string, token *oauth2.Token) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(tokensCollection)

	filter := bson.D{{Key: "user_uuid", Value: userUUID}}
	update := bson.M{"$set": bson.M{"token": token}}

	_, err = collection.UpdateOne(m.ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongodb save google token: %w", err)
	}
	return nil
}

func (m *MongoDB) GetGoogleToken(userUUID string) (*oauth2.Token, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(tokensCollection)
	filter := bson.D{{Key: "user_uuid", Value: userUUID}}

	var doc tokenDoc
	err = collection.FindOne(m.ctx, filter).Decode(&doc)
	if err != nil {
		return nil, m.findError(err)
	}

	return doc.Token, nil
}

// SaveAuthNonce stores the state nonce issued at the start of the OAuth
// flow; the callback resolves it back to the user.
func (m *MongoDB) SaveAuthNonce(userUUID, nonce string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(tokensCollection)

	filter := bson.D{{Key: "user_uuid", Value: userUUID}}
	update := bson.M{"$set": bson.M{"nonce": nonce}}

	_, err = collection.UpdateOne(m.ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongodb save auth nonce: %w", err)
	}
	return nil
}

func (m *MongoDB) GetUserByAuthNonce(nonce string) (string, error) {
	connection, err := m.connect()
	if err != nil {
		return "", err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(tokensCollection)
	filter := bson.D{{Key: "nonce", Value: nonce}}

	var doc tokenDoc
	err = collection.FindOne(m.ctx, filter).Decode(&doc)
	if err != nil {
		return "", fmt.Errorf("mongodb find auth nonce: %w", err)
	}

	return doc.UserUUID, nil
}
