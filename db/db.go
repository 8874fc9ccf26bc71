package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection          *mongo.Collection
	ItineraryCollection     *mongo.Collection
	ExperiencesCollection   *mongo.Collection
	ReviewsCollection       *mongo.Collection
	CommentsCollection      *mongo.Collection
	PostsCollection         *mongo.Collection
	CategoriesCollection    *mongo.Collection
	NotificationsCollection *mongo.Collection
	ContactCollection       *mongo.Collection
	Client                  *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	var err error
	Client, err = mongo.Connect(context.TODO(), options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database("navippon")
	UserCollection = database.Collection("users")
	ItineraryCollection = database.Collection("itineraries")
	ExperiencesCollection = database.Collection("experiences")
	ReviewsCollection = database.Collection("reviews")
	CommentsCollection = database.Collection("comments")
	PostsCollection = database.Collection("posts")
	CategoriesCollection = database.Collection("categories")
	NotificationsCollection = database.Collection("notifications")
	ContactCollection = database.Collection("contact_messages")
}
