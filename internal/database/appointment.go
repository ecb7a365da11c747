package repository

import (
	"CalAssist/entity"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *MongoDB) InsertAppointment(appointment entity.Appointment) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(appointmentsCollection)

	_, err = collection.InsertOne(m.ctx, appointment)
	if err != nil {
		return fmt.Errorf("mongodb insert appointment: %w", err)
	}

	return nil
}

func (m *MongoDB) GetAppointment(userUUID, id string) (*entity.Appointment, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(appointmentsCollection)
	filter := bson.D{{Key: "user_uuid", Value: userUUID}, {Key: "id", Value: id}}

	var appointment entity.Appointment
	err = collection.FindOne(m.ctx, filter).Decode(&appointment)
	if err != nil {
		return nil, m.findError(err)
	}

	return &appointment, nil
}

// GetAppointments returns a user's appointments inside [from, to), sorted
// by start time. Zero bounds widen the window on that side.
func (m *MongoDB) GetAppointments(userUUID string, from, to time.Time) ([]entity.Appointment, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(appointmentsCollection)

	window := bson.D{}
	if !from.IsZero() {
		window = append(window, bson.E{Key: "$gte", Value: from})
	}
	if !to.IsZero() {
		window = append(window, bson.E{Key: "$lt", Value: to})
	}

	filter := bson.D{{Key: "user_uuid", Value: userUUID}}
	if len(window) > 0 {
		filter = append(filter, bson.E{Key: "start_at", Value: window})
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_at", Value: 1}})

	cursor, err := collection.Find(m.ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find appointments: %w", err)
	}
	defer cursor.Close(m.ctx)

	var appointments []entity.Appointment
	if err = cursor.All(m.ctx, &appointments); err != nil {
		return nil, fmt.Errorf("mongodb decode appointments: %w", err)
	}

	return appointments, nil
}

func (m *MongoDB) DeleteAppointment(userUUID, id string) (*entity.Appointment, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(appointmentsCollection)
	filter := bson.D{{Key: "user_uuid", Value: userUUID}, {Key: "id", Value: id}}

	var deleted entity.Appointment
	err = collection.FindOneAndDelete(m.ctx, filter).Decode(&deleted)
	if err != nil {
		return nil, m.findError(err)
	}

	return &deleted, nil
}

// GetDueAppointments returns appointments starting inside [now, now+lead]
// whose reminder has not been sent yet.
func (m *MongoDB) GetDueAppointments(now time.Time, lead time.Duration) ([]entity.Appointment, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(appointmentsCollection)

	filter := bson.D{
		{Key: "reminder_sent", Value: false},
		{Key: "start_at", Value: bson.D{
			{Key: "$gte", Value: now},
			{Key: "$lte", Value: now.Add(lead)},
		}},
	}

	cursor, err := collection.Find(m.ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("mongodb find due appointments: %w", err)
	}
	defer cursor.Close(m.ctx)

	var appointments []entity.Appointment
	if err = cursor.All(m.ctx, &appointments); err != nil {
		return nil, fmt.Errorf("mongodb decode due appointments: %w", err)
	}

	return appointments, nil
}

// MarkReminderSent flips reminder_sent atomically. Returns false when the
// flag was already set, so two overlapping scans cannot both notify.
func (m *MongoDB) MarkReminderSent(id string) (bool, error) {
	connection, err := m.connect()
	if err != nil {
		return false, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(appointmentsCollection)

	filter := bson.D{{Key: "id", Value: id}, {Key: "reminder_sent", Value: false}}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "reminder_sent", Value: true}}}}

	var previous entity.Appointment
	err = collection.FindOneAndUpdate(m.ctx, filter, update).Decode(&previous)
	if err != nil {
		if ferr := m.findError(err); ferr != nil {
			return false, ferr
		}
		return false, nil
	}

	return true, nil
}

func (m *MongoDB) SetGoogleEventId(id, eventId string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(appointmentsCollection)

	filter := bson.D{{Key: "id", Value: id}}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "google_event_id", Value: eventId}}}}

	_, err = collection.UpdateOne(m.ctx, filter, update)
	if err != nil {
		return fmt.Errorf("mongodb set google event id: %w", err)
	}

	return nil
}

// EnsureAppointmentIndexes creates indexes for the appointments collection.
func (m *MongoDB) EnsureAppointmentIndexes() error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(appointmentsCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_uuid", Value: 1},
				{Key: "start_at", Value: 1},
			},
		},
		{
			Keys: bson.D{
				{Key: "reminder_sent", Value: 1},
				{Key: "start_at", Value: 1},
			},
		},
	}

	_, err = collection.Indexes().CreateMany(m.ctx, indexes)
	if err != nil {
		return fmt.Errorf("mongodb create appointment indexes: %w", err)
	}

	return nil
}
